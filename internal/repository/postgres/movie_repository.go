package postgres

import (
	"api_recommender/internal/models"
	"api_recommender/internal/repository"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

var _ repository.MovieSearch = (*MovieRepository)(nil)

type MovieRepository struct {
	db *pgxpool.Pool
}

func NewMovieRepository(db *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{db: db}
}

// Nearest возвращает topN фильмов, ближайших к эмбеддингу запроса,
// по возрастанию косинусного расстояния (оператор <=> pgvector).
func (r *MovieRepository) Nearest(ctx context.Context, embedding []float32, topN int) ([]models.Movie, error) {
	const op = "repository.Movie.Nearest"

	rows, err := r.db.Query(ctx, repository.NearestMoviesQuery, pgvector.NewVector(embedding), topN)
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
