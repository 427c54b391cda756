package postgres

import (
	"api_recommender/internal/custom_err"
	"api_recommender/internal/models"
	"api_recommender/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var _ repository.Wallet = (*WalletRepository)(nil)

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	const op = "repository.Wallet.Create"
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, repository.CreateWalletQuery, uuid.New(), userID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &wallet, nil
}

func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	const op = "repository.Wallet.GetByID"
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, repository.GetWalletByIDQuery, id).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &wallet, nil
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	const op = "repository.Wallet.GetByUserID"
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, repository.GetWalletByUserIDQuery, userID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &wallet, nil
}

// ApplyTransaction выполняет проводку по кошельку: блокирует строку кошелька,
// проверяет достаточность средств для списания, вставляет строку транзакции и
// обновляет баланс. Все три шага коммитятся вместе либо откатываются вместе.
// Блокировка FOR UPDATE сериализует конкурентные списания: из двух
// одновременных дебетов, на которые средств хватает лишь по отдельности,
// пройдет не больше одного.
func (r *WalletRepository) ApplyTransaction(
	ctx context.Context,
	walletID uuid.UUID,
	amount decimal.Decimal,
	txType models.TransactionType,
	description string,
) (*models.Wallet, error) {
	const op = "repository.Wallet.ApplyTransaction"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	var userID uuid.UUID
	if err := tx.QueryRow(ctx, repository.LockWalletStateQuery, walletID).Scan(&balance, &userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: ошибка чтения состояния кошелька: %w", op, err)
	}

	if amount.IsNegative() && balance.Add(amount).IsNegative() {
		return nil, custom_err.ErrInsufficientFunds
	}

	var wallet models.Wallet
	_, err = tx.Exec(ctx, repository.CreateTransactionQuery,
		uuid.New(), walletID, userID, amount, txType, description)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка записи транзакции: %w", op, err)
	}

	err = tx.QueryRow(ctx, repository.UpdateWalletBalanceQuery, amount, walletID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка обновления баланса: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: не удалось зафиксировать транзакцию: %w", op, err)
	}
	return &wallet, nil
}

func (r *WalletRepository) Transactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	const op = "repository.Wallet.Transactions"

	rows, err := r.db.Query(ctx, repository.GetTransactionsQuery, walletID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.UserID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: ошибка чтения строки: %w", op, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return transactions, nil
}
