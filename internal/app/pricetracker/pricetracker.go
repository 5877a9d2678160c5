// Package pricetracker собирает основное приложение: хранилище, кэш,
// брокер уведомлений, сервисы и HTTP-сервер.
package pricetracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/gambiamarkets/price-tracker/internal/cache"
	"github.com/gambiamarkets/price-tracker/internal/config"
	customjwt "github.com/gambiamarkets/price-tracker/internal/lib/jwt"
	"github.com/gambiamarkets/price-tracker/internal/lib/rabbitmq"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/migrations"
	authservice "github.com/gambiamarkets/price-tracker/internal/services/auth"
	catalogservice "github.com/gambiamarkets/price-tracker/internal/services/catalog"
	submissionservice "github.com/gambiamarkets/price-tracker/internal/services/submission"
	"github.com/gambiamarkets/price-tracker/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := customjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	productService := catalogservice.NewProductService(db, logger)
	marketService := catalogservice.NewMarketService(db, logger)
	submissionService := submissionservice.NewSubmissionService(
		db, db, cacheRedis, submissionservice.NewAmqpReviewPublisher(ch), logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, productService, marketService, submissionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", sl.Err(cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", sl.Err(cerr))
		}
		a.db.DB.Close()
		return err
	}
}
