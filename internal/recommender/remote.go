package recommender

import (
	"context"
	"fmt"

	"api_recommender/internal/rpc"
)

type EmbeddingCaller interface {
	Call(ctx context.Context, text string) (rpc.EmbeddingReply, error)
}

var _ Recommender = (*Remote)(nil)

// Remote получает эмбеддинг от ml-сервиса через RPC поверх брокера.
type Remote struct {
	client EmbeddingCaller
}

func NewRemote(client EmbeddingCaller) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Embed(ctx context.Context, text string) ([]float32, error) {
	const op = "recommender.Remote.Embed"

	reply, err := r.client.Call(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reply.RequestEmbedding, nil
}
