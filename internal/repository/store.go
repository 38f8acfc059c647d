package repository

import (
	"context"
	"database/sql"

	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	Assignments() AssignmentRepository
	TechnologyProgress() TechnologyProgressRepository
	MaterialProgress() MaterialProgressRepository
	TrainingStatus() TrainingStatusRepository
	Teams() TeamRepository
	Catalog() CatalogRepository
}

// Store runs repositories either directly on the pool or inside a
// transaction opened by WithTx.
type Store interface {
	Repositories
	WithTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
}

type repositorySet struct {
	assignments        AssignmentRepository
	technologyProgress TechnologyProgressRepository
	materialProgress   MaterialProgressRepository
	trainingStatus     TrainingStatusRepository
	teams              TeamRepository
	catalog            CatalogRepository
}

func newRepositorySet(db DBTX, logger zerolog.Logger) *repositorySet {
	return &repositorySet{
		assignments:        NewAssignmentRepository(db, logger),
		technologyProgress: NewTechnologyProgressRepository(db, logger),
		materialProgress:   NewMaterialProgressRepository(db, logger),
		trainingStatus:     NewTrainingStatusRepository(db, logger),
		teams:              NewTeamRepository(db, logger),
		catalog:            NewCatalogRepository(db, logger),
	}
}

func (s *repositorySet) Assignments() AssignmentRepository                 { return s.assignments }
func (s *repositorySet) TechnologyProgress() TechnologyProgressRepository { return s.technologyProgress }
func (s *repositorySet) MaterialProgress() MaterialProgressRepository     { return s.materialProgress }
func (s *repositorySet) TrainingStatus() TrainingStatusRepository         { return s.trainingStatus }
func (s *repositorySet) Teams() TeamRepository                            { return s.teams }
func (s *repositorySet) Catalog() CatalogRepository                       { return s.catalog }

type postgresStore struct {
	*repositorySet
	db     *sql.DB
	logger zerolog.Logger
}

func NewStore(db *sql.DB, logger zerolog.Logger) Store {
	return &postgresStore{
		repositorySet: newRepositorySet(db, logger),
		db:            db,
		logger:        logger,
	}
}

func (s *postgresStore) WithTx(ctx context.Context, fn func(tx Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Annotate(err, "begin transaction")
	}

	if err := fn(newRepositorySet(tx, s.logger)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Annotate(err, "commit transaction")
	}

	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
