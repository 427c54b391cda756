package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"api_recommender/internal/custom_err"
	"api_recommender/internal/recommender"
	"api_recommender/internal/rpc"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker — серверная сторона RPC: потребляет очередь задач с prefetch = 1
// (один необработанный запрос на процесс — этим ограничивается нагрузка,
// масштабирование достигается запуском дополнительных воркеров), считает
// эмбеддинг и публикует ответ в reply-очередь запроса.
type Worker struct {
	ch       rpc.Channel
	queue    string
	embedder recommender.Recommender
	log      *slog.Logger
}

func New(ch rpc.Channel, queue string, embedder recommender.Recommender, log *slog.Logger) *Worker {
	return &Worker{
		ch:       ch,
		queue:    queue,
		embedder: embedder,
		log:      log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	const op = "worker.Run"

	if err := w.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}

	if _, err := w.ch.QueueDeclare(w.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}

	deliveries, err := w.ch.Consume(w.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, custom_err.ErrConnection, err)
	}

	w.log.Info("воркер запущен, ожидание запросов", slog.String("queue", w.queue))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("воркер останавливается")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%s: канал доставки закрыт: %w", op, custom_err.ErrConnection)
			}
			w.handle(ctx, d)
		}
	}
}

// handle обрабатывает один запрос. Подтверждение (ack) уходит только после
// успешной публикации ответа; любая ошибка приводит к nack без повторной
// постановки в очередь — клиент на своей стороне отработает таймаут.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	const op = "worker.handle"
	log := w.log.With(slog.String("op", op), slog.String("correlation_id", d.CorrelationId))

	var req rpc.EmbeddingRequest
	if err := json.Unmarshal(d.Body, &req); err != nil {
		log.Error("не удалось разобрать тело запроса", slog.String("error", err.Error()))
		w.nack(d, log)
		return
	}
	if req.Text == "" {
		log.Warn("запрос без текста отклонен")
		w.nack(d, log)
		return
	}

	start := time.Now()
	embedding, err := w.embedder.Embed(ctx, req.Text)
	if err != nil {
		log.Error("ошибка вычисления эмбеддинга", slog.String("error", err.Error()))
		w.nack(d, log)
		return
	}
	elapsed := time.Since(start).Seconds()

	reply := rpc.EmbeddingReply{
		RequestEmbedding: embedding,
		ProcessingTime:   elapsed,
		Status:           rpc.StatusSuccess,
	}
	body, err := json.Marshal(reply)
	if err != nil {
		log.Error("не удалось сериализовать ответ", slog.String("error", err.Error()))
		w.nack(d, log)
		return
	}

	err = w.ch.PublishWithContext(ctx, "", d.ReplyTo, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: d.CorrelationId,
		Body:          body,
	})
	if err != nil {
		log.Error("не удалось опубликовать ответ", slog.String("error", err.Error()))
		w.nack(d, log)
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error("не удалось подтвердить сообщение", slog.String("error", err.Error()))
		return
	}
	log.Info("запрос обработан", slog.Float64("processing_time", elapsed))
}

func (w *Worker) nack(d amqp.Delivery, log *slog.Logger) {
	if err := d.Nack(false, false); err != nil {
		log.Error("не удалось отклонить сообщение", slog.String("error", err.Error()))
	}
}
