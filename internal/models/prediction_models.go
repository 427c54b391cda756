package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Movie struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Year        int       `json:"year" db:"year"`
	Genres      []string  `json:"genres" db:"genres"`
}

// Prediction — оплаченный запрос рекомендации и его результат.
// Movies упорядочены по возрастанию расстояния до эмбеддинга запроса.
type Prediction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	InputText string          `json:"input_text" db:"input_text"`
	Embedding []float32       `json:"-" db:"embedding"`
	Cost      decimal.Decimal `json:"cost" db:"cost"`
	Movies    []Movie         `json:"movies" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
