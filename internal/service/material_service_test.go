package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) Upload(_ context.Context, key string, data io.Reader, _ int64, _ string) error {
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.objects[key] = body
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) GetURL(key string) string {
	return "http://storage.local/training-materials/" + key
}

func TestUploadMaterialDocument(t *testing.T) {
	store := newFakeStore()
	store.data.materials[7] = models.TrainingMaterial{ID: 7, TrainingID: trainingID, Type: models.MaterialTypeLink, Active: true}
	storage := &memoryStorage{objects: map[string][]byte{}}
	svc := NewMaterialService(store, storage, zerolog.Nop())

	material, err := svc.UploadMaterialDocument(context.Background(), &UploadDocumentRequest{
		MaterialID:  7,
		FileName:    "Guide.PDF",
		ContentType: "application/pdf",
		Size:        5,
		Content:     strings.NewReader("hello"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.MaterialTypeDocument, material.Type)
	assert.True(t, strings.HasPrefix(material.URL, "http://storage.local/training-materials/materials/7/"))
	assert.True(t, strings.HasSuffix(material.URL, ".pdf"))
	assert.Len(t, storage.objects, 1)
	assert.Equal(t, material.URL, store.data.materials[7].URL)
}

func TestUploadMaterialDocument_Errors(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	req := &UploadDocumentRequest{MaterialID: 7, FileName: "a.txt", Size: 1, Content: strings.NewReader("x")}

	_, err := NewMaterialService(store, nil, zerolog.Nop()).UploadMaterialDocument(ctx, req)
	assert.True(t, errors.Is(err, errors.NotSupported))

	svc := NewMaterialService(store, &memoryStorage{objects: map[string][]byte{}}, zerolog.Nop())

	_, err = svc.UploadMaterialDocument(ctx, req)
	assert.True(t, errors.Is(err, errors.NotFound))

	_, err = svc.UploadMaterialDocument(ctx, &UploadDocumentRequest{MaterialID: 7})
	assert.True(t, errors.Is(err, errors.NotValid))
}
