package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/repository"
	"github.com/RubachokBoss/career-plan-service/internal/service/storage"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

type MaterialService interface {
	UploadMaterialDocument(ctx context.Context, req *UploadDocumentRequest) (*models.TrainingMaterial, error)
}

type UploadDocumentRequest struct {
	MaterialID  int64
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type materialService struct {
	store   repository.Store
	storage storage.DocumentStorage
	logger  zerolog.Logger
}

// NewMaterialService accepts a nil storage; uploads then fail as not supported.
func NewMaterialService(store repository.Store, documents storage.DocumentStorage, logger zerolog.Logger) MaterialService {
	return &materialService{
		store:   store,
		storage: documents,
		logger:  logger,
	}
}

func (s *materialService) UploadMaterialDocument(ctx context.Context, req *UploadDocumentRequest) (*models.TrainingMaterial, error) {
	if s.storage == nil {
		return nil, errors.NotSupportedf("document upload without object storage")
	}
	if req.Content == nil || req.Size <= 0 {
		return nil, errors.NewNotValid(nil, "file is empty")
	}

	material, err := s.store.Catalog().GetMaterialByID(ctx, req.MaterialID)
	if err != nil {
		return nil, errors.Annotatef(err, "load material %d", req.MaterialID)
	}
	if material == nil || !material.Active {
		return nil, errors.NotFoundf("training material %d", req.MaterialID)
	}

	key := fmt.Sprintf("materials/%d/%s%s", material.ID, uuid.NewString(), strings.ToLower(filepath.Ext(req.FileName)))

	if err := s.storage.Upload(ctx, key, req.Content, req.Size, req.ContentType); err != nil {
		return nil, errors.Annotate(err, "upload document")
	}

	url := s.storage.GetURL(key)
	if err := s.store.Catalog().UpdateMaterialDocument(ctx, material.ID, url); err != nil {
		// Удаляем уже загруженный объект
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error().Err(delErr).Str("key", key).Msg("Failed to delete orphaned document")
		}
		return nil, errors.Annotatef(err, "update material %d", material.ID)
	}

	material.URL = url
	material.Type = models.MaterialTypeDocument

	s.logger.Info().
		Int64("material_id", material.ID).
		Str("key", key).
		Int64("size", req.Size).
		Msg("Material document uploaded")

	return material, nil
}
