package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "submission.reviewed", RoutingKey: "reviewed"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
