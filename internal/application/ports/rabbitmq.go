package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"pingo-api/internal/infrastructure/mq"
)

type EventEmitter interface {
	Emit(ctx context.Context, e mq.Event) error
}

type RabbitMQ interface {
	EventEmitter
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}
