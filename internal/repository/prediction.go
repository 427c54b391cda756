package repository

import (
	"context"

	"api_recommender/internal/models"

	"github.com/google/uuid"
)

type Prediction interface {
	Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Prediction, error)
}

// MovieSearch — поиск ближайших фильмов по эмбеддингу запроса.
// Результат упорядочен по возрастанию расстояния.
type MovieSearch interface {
	Nearest(ctx context.Context, embedding []float32, topN int) ([]models.Movie, error)
}

type User interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
