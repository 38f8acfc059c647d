package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/RubachokBoss/career-plan-service/internal/config"
	"github.com/RubachokBoss/career-plan-service/internal/delivery/httpd"
	appmw "github.com/RubachokBoss/career-plan-service/internal/middleware"
	"github.com/RubachokBoss/career-plan-service/internal/repository"
	"github.com/RubachokBoss/career-plan-service/internal/service"
	"github.com/RubachokBoss/career-plan-service/internal/service/integration"
	"github.com/RubachokBoss/career-plan-service/internal/service/storage"
	"github.com/RubachokBoss/career-plan-service/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/clock"
	"github.com/rs/zerolog"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	// Интеграции необязательны: без них сервис продолжает работать
	publisher := newPublisher(cfg, log)

	var documents storage.DocumentStorage
	if cfg.Storage.Enabled {
		minioStorage, err := storage.NewMinIOStorage(storage.StorageConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
			Timeout:   cfg.Storage.Timeout,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to create document storage, uploads are disabled")
		} else {
			documents = minioStorage
		}
	}

	// Репозитории и сервисы
	store := repository.NewStore(db, log)
	clk := clock.WallClock

	assignmentService := service.NewAssignmentService(store, publisher, clk, log)
	progressService := service.NewProgressService(store, publisher, clk, log)
	statusService := service.NewStatusService(store, publisher, clk, log)
	teamService := service.NewTeamService(store, publisher, clk, service.TeamOptions{
		ReassignCompleted: cfg.Assignment.ReassignCompleted,
	}, log)
	materialService := service.NewMaterialService(store, documents, log)

	handler := httpd.NewHandler(
		assignmentService,
		progressService,
		statusService,
		teamService,
		materialService,
		store,
		cfg.Server.MaxUploadSize,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appmw.RequestLogger(log))
	router.Use(appmw.Recovery(log))
	router.Use(appmw.Timeout(cfg.Server.RequestTimeout))
	router.Use(appmw.NewCORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
		cfg.CORS.ExposedHeaders,
		cfg.CORS.AllowCredentials,
		cfg.CORS.MaxAge,
	))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func newPublisher(cfg *config.Config, log zerolog.Logger) integration.EventPublisher {
	var publishers []integration.EventPublisher

	if cfg.RabbitMQ.Enabled {
		rabbit, err := integration.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
		} else {
			publishers = append(publishers, rabbit)
		}
	}

	if cfg.Mirror.Enabled {
		publishers = append(publishers, integration.NewMirrorClient(
			cfg.Mirror.URL,
			cfg.Mirror.AuthToken,
			cfg.Mirror.Timeout,
			cfg.Mirror.RetryCount,
			cfg.Mirror.RetryDelay,
			log,
		))
	}

	var next integration.EventPublisher
	switch len(publishers) {
	case 0:
		return integration.NewNopPublisher()
	case 1:
		next = publishers[0]
	default:
		next = integration.NewMultiPublisher(publishers...)
	}

	pool := worker.NewWorkerPool(cfg.Events.Workers, cfg.Events.QueueSize, cfg.Events.SubmitTimeout, log)
	pool.Start()

	return worker.NewAsyncPublisher(next, pool, cfg.Events.PublishTimeout, log)
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting career plan service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down career plan service...")

	// Сначала перестаём принимать запросы
	err := a.server.Shutdown(ctx)

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return err
}
