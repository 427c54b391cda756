package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"api_recommender/internal/custom_err"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Client — клиентская сторона RPC поверх брокера. На каждый вызов открывается
// канал, объявляется приватная эксклюзивная reply-очередь и генерируется свежий
// корреляционный идентификатор; ожидается ровно один ответ с этим
// идентификатором, чужие ответы пропускаются.
type Client struct {
	openChannel func() (Channel, error)
	taskQueue   string
	timeout     time.Duration
}

func NewClient(conn *amqp.Connection, taskQueue string, timeout time.Duration) *Client {
	return &Client{
		openChannel: func() (Channel, error) { return conn.Channel() },
		taskQueue:   taskQueue,
		timeout:     timeout,
	}
}

func newClientWithOpener(open func() (Channel, error), taskQueue string, timeout time.Duration) *Client {
	return &Client{openChannel: open, taskQueue: taskQueue, timeout: timeout}
}

func (c *Client) Call(ctx context.Context, text string) (EmbeddingReply, error) {
	const op = "rpc.Client.Call"

	ch, err := c.openChannel()
	if err != nil {
		return EmbeddingReply{}, fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.taskQueue, true, false, false, false, nil); err != nil {
		return EmbeddingReply{}, fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}

	// Имя очереди генерирует брокер; очередь эксклюзивна для этого вызова
	// и удаляется вместе с каналом.
	replyQueue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return EmbeddingReply{}, fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}

	deliveries, err := ch.Consume(replyQueue.Name, "", true, true, false, false, nil)
	if err != nil {
		return EmbeddingReply{}, fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}

	correlationID := uuid.NewString()
	body, err := json.Marshal(EmbeddingRequest{Text: text})
	if err != nil {
		return EmbeddingReply{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", c.taskQueue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		ReplyTo:       replyQueue.Name,
		DeliveryMode:  amqp.Persistent,
		Body:          body,
	})
	if err != nil {
		return EmbeddingReply{}, fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return EmbeddingReply{}, fmt.Errorf("%s: %w", op, custom_err.ErrRPCTimeout)
			}
			return EmbeddingReply{}, fmt.Errorf("%s: %w", op, ctx.Err())
		case d, ok := <-deliveries:
			if !ok {
				return EmbeddingReply{}, fmt.Errorf("%s: %w", op, custom_err.ErrConnection)
			}
			// Ответ на чужой, уже завершившийся вызов, пропускаем.
			if d.CorrelationId != correlationID {
				continue
			}

			var reply EmbeddingReply
			if err := json.Unmarshal(d.Body, &reply); err != nil {
				return EmbeddingReply{}, fmt.Errorf("%s: %w: %w", op, custom_err.ErrProtocol, err)
			}
			if reply.Status != StatusSuccess || len(reply.RequestEmbedding) == 0 {
				return EmbeddingReply{}, fmt.Errorf("%s: %w", op, custom_err.ErrProtocol)
			}
			return reply, nil
		}
	}
}
