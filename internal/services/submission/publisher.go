package services

import (
	"github.com/streadway/amqp"

	"github.com/gambiamarkets/price-tracker/internal/lib/rabbitmq"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// AmqpReviewPublisher публикует события проверки в exchange "notifications"
// с ключом маршрутизации "reviewed".
type AmqpReviewPublisher struct {
	ch *amqp.Channel
}

// NewAmqpReviewPublisher создает новый экземпляр AmqpReviewPublisher.
func NewAmqpReviewPublisher(ch *amqp.Channel) *AmqpReviewPublisher {
	return &AmqpReviewPublisher{ch: ch}
}

// PublishReview отправляет событие проверки заявки в очередь уведомлений.
func (p *AmqpReviewPublisher) PublishReview(event models.ReviewEvent) error {
	return rabbitmq.PublishMessage(p.ch, "notifications", "reviewed", event)
}
