package repository

import (
	"context"

	"api_recommender/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet — журнал транзакций кошелька. ApplyTransaction — единственная
// операция, меняющая баланс: проверка достаточности средств, вставка
// строки транзакции и обновление баланса выполняются в одной транзакции БД
// под блокировкой строки кошелька.
type Wallet interface {
	Create(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	ApplyTransaction(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error)
	Transactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)
}
