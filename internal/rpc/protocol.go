package rpc

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Протокол обмена с ml-сервисом поверх брокера. Запрос уходит в общую
// durable-очередь задач, ответ возвращается в приватную очередь из поля
// replyTo с корреляционным идентификатором исходного запроса.

const StatusSuccess = "success"

type EmbeddingRequest struct {
	Text string `json:"text"`
}

type EmbeddingReply struct {
	RequestEmbedding []float32 `json:"request_embedding"`
	ProcessingTime   float64   `json:"processing_time"`
	Status           string    `json:"status"`
}

// Channel — подмножество методов amqp-канала, которым пользуются клиент и
// воркер. Выделено в интерфейс ради подмены в тестах.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

var _ Channel = (*amqp.Channel)(nil)
