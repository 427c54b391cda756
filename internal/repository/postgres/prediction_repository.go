package postgres

import (
	"api_recommender/internal/models"
	"api_recommender/internal/repository"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

var _ repository.Prediction = (*PredictionRepository)(nil)

type PredictionRepository struct {
	db *pgxpool.Pool
}

func NewPredictionRepository(db *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Create сохраняет предсказание вместе с упорядоченным списком рекомендованных
// фильмов в одной транзакции БД.
func (r *PredictionRepository) Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error) {
	const op = "repository.Prediction.Create"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}
	defer tx.Rollback(ctx)

	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}

	err = tx.QueryRow(ctx, repository.CreatePredictionQuery,
		prediction.ID,
		prediction.UserID,
		prediction.InputText,
		pgvector.NewVector(prediction.Embedding),
		prediction.Cost,
	).Scan(&prediction.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка записи предсказания: %w", op, err)
	}

	for position, movie := range prediction.Movies {
		if _, err := tx.Exec(ctx, repository.LinkPredictionMovieQuery, prediction.ID, movie.ID, position); err != nil {
			return nil, fmt.Errorf("%s: ошибка привязки фильма: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: не удалось зафиксировать транзакцию: %w", op, err)
	}
	return prediction, nil
}

func (r *PredictionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Prediction, error) {
	const op = "repository.Prediction.GetByUserID"

	rows, err := r.db.Query(ctx, repository.GetPredictionsByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.InputText, &p.Cost, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: ошибка чтения строки: %w", op, err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range predictions {
		movies, err := r.predictionMovies(ctx, predictions[i].ID)
		if err != nil {
			return nil, err
		}
		predictions[i].Movies = movies
	}
	return predictions, nil
}

func (r *PredictionRepository) predictionMovies(ctx context.Context, predictionID uuid.UUID) ([]models.Movie, error) {
	const op = "repository.Prediction.predictionMovies"

	rows, err := r.db.Query(ctx, repository.GetPredictionMoviesQuery, predictionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Year, &m.Genres); err != nil {
			return nil, fmt.Errorf("%s: ошибка чтения строки: %w", op, err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return movies, nil
}
