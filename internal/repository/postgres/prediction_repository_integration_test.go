package postgres

import (
	"context"
	"testing"

	"api_recommender/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMovie(t *testing.T, pool *pgxpool.Pool, title string, embedding []float32) models.Movie {
	t.Helper()
	movie := models.Movie{
		ID:     uuid.New(),
		Title:  title,
		Year:   2020,
		Genres: []string{"drama"},
	}
	_, err := pool.Exec(context.Background(),
		"INSERT INTO movies (id, title, description, year, genres, embedding) VALUES ($1, $2, '', $3, $4, $5)",
		movie.ID, movie.Title, movie.Year, movie.Genres, pgvector.NewVector(embedding))
	require.NoError(t, err)
	return movie
}

// axisEmbedding возвращает единичный вектор с единицей в заданной координате.
func axisEmbedding(axis int) []float32 {
	vec := make([]float32, 384)
	vec[axis] = 1
	return vec
}

func TestMovieRepository_Nearest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	pool, cleanup := setupRepoTest(t)
	defer cleanup()

	repo := NewMovieRepository(pool)
	ctx := context.Background()

	closest := seedMovie(t, pool, "Почти точное совпадение", axisEmbedding(0))
	middle := seedMovie(t, pool, "Похожий", axisEmbedding(1))
	seedMovie(t, pool, "Далекий", axisEmbedding(2))

	query := make([]float32, 384)
	query[0] = 1
	query[1] = 0.5

	movies, err := repo.Nearest(ctx, query, 2)
	require.NoError(t, err)
	require.Len(t, movies, 2, "limit must cap the result set")

	assert.Equal(t, closest.ID, movies[0].ID, "results must be ordered by vector distance")
	assert.Equal(t, middle.ID, movies[1].ID)
	assert.Equal(t, "Почти точное совпадение", movies[0].Title)
	assert.Equal(t, []string{"drama"}, movies[0].Genres)
}

func TestPredictionRepository_CreateAndHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	pool, cleanup := setupRepoTest(t)
	defer cleanup()

	repo := NewPredictionRepository(pool)
	ctx := context.Background()

	userID := seedUser(t, pool, false)
	first := seedMovie(t, pool, "Первый", axisEmbedding(0))
	second := seedMovie(t, pool, "Второй", axisEmbedding(1))

	created, err := repo.Create(ctx, &models.Prediction{
		UserID:    userID,
		InputText: "хочу боевик",
		Embedding: axisEmbedding(3),
		Cost:      decimal.NewFromInt(10),
		Movies:    []models.Movie{first, second},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("History preserves movie order", func(t *testing.T) {
		predictions, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, predictions, 1)

		p := predictions[0]
		assert.Equal(t, "хочу боевик", p.InputText)
		assert.True(t, p.Cost.Equal(decimal.NewFromInt(10)))
		require.Len(t, p.Movies, 2)
		assert.Equal(t, first.ID, p.Movies[0].ID, "the recommendation the model ranked first stays first")
		assert.Equal(t, second.ID, p.Movies[1].ID)
	})

	t.Run("History of unknown user is empty", func(t *testing.T) {
		predictions, err := repo.GetByUserID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, predictions)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	pool, cleanup := setupRepoTest(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	adminID := seedUser(t, pool, true)

	user, err := repo.GetByID(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, adminID, user.ID)
	assert.True(t, user.IsAdmin)
}
