// Package sender собирает воркер почтовых уведомлений: подключение к брокеру,
// SMTP-транспорт и цикл потребления событий проверки заявок.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/gambiamarkets/price-tracker/internal/config"
	"github.com/gambiamarkets/price-tracker/internal/lib/rabbitmq"
	"github.com/gambiamarkets/price-tracker/internal/lib/smtp"
	senderservice "github.com/gambiamarkets/price-tracker/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "submission.reviewed", a.senderService.HandleReviewedEvent)
	if err != nil {
		a.logger.Error("failed to start submission.reviewed consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
