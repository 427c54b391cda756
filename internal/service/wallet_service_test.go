package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"api_recommender/internal/custom_err"
	"api_recommender/internal/models"
	"api_recommender/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.Wallet = (*mockWalletRepo)(nil)

type mockWalletRepo struct {
	CreateFunc           func(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	GetByUserIDFunc      func(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	ApplyTransactionFunc func(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error)
	TransactionsFunc     func(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)
}

func (m *mockWalletRepo) Create(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID)
	}
	return nil, errors.New("CreateFunc not implemented")
}

func (m *mockWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented")
}

func (m *mockWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, errors.New("GetByUserIDFunc not implemented")
}

func (m *mockWalletRepo) ApplyTransaction(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error) {
	if m.ApplyTransactionFunc != nil {
		return m.ApplyTransactionFunc(ctx, walletID, amount, txType, description)
	}
	return nil, errors.New("ApplyTransactionFunc not implemented")
}

func (m *mockWalletRepo) Transactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	if m.TransactionsFunc != nil {
		return m.TransactionsFunc(ctx, walletID)
	}
	return nil, errors.New("TransactionsFunc not implemented")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWalletService_RegisterWallet(t *testing.T) {
	userID := uuid.New()
	walletID := uuid.New()

	t.Run("Success - wallet created with welcome bonus", func(t *testing.T) {
		var bonusAmount decimal.Decimal
		var bonusType models.TransactionType

		mockRepo := &mockWalletRepo{
			CreateFunc: func(ctx context.Context, uid uuid.UUID) (*models.Wallet, error) {
				assert.Equal(t, userID, uid)
				return &models.Wallet{ID: walletID, UserID: uid, Balance: decimal.Zero}, nil
			},
			ApplyTransactionFunc: func(ctx context.Context, wid uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error) {
				bonusAmount = amount
				bonusType = txType
				return &models.Wallet{ID: wid, UserID: userID, Balance: amount}, nil
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		wallet, err := service.RegisterWallet(context.Background(), userID)

		require.NoError(t, err)
		assert.True(t, models.CostBonus.Equal(bonusAmount), "welcome bonus should be credited")
		assert.Equal(t, models.DepositTransaction, bonusType)
		assert.True(t, models.CostBonus.Equal(wallet.Balance))
	})

	t.Run("Error - repo failure propagates", func(t *testing.T) {
		mockRepo := &mockWalletRepo{
			CreateFunc: func(ctx context.Context, uid uuid.UUID) (*models.Wallet, error) {
				return nil, errors.New("db down")
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		_, err := service.RegisterWallet(context.Background(), userID)
		require.Error(t, err)
	})
}

func TestWalletService_ApplyOperation(t *testing.T) {
	walletID := uuid.New()

	t.Run("Success - Deposit keeps positive sign", func(t *testing.T) {
		var applied decimal.Decimal
		mockRepo := &mockWalletRepo{
			ApplyTransactionFunc: func(ctx context.Context, wid uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error) {
				applied = amount
				return &models.Wallet{ID: wid, Balance: amount}, nil
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		req := models.WalletOperationRequest{
			WalletID:      walletID,
			OperationType: models.DepositTransaction,
			Amount:        decimal.NewFromInt(50),
		}
		_, err := service.ApplyOperation(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(50).Equal(applied))
	})

	t.Run("Success - Withdrawal negates amount", func(t *testing.T) {
		var applied decimal.Decimal
		mockRepo := &mockWalletRepo{
			ApplyTransactionFunc: func(ctx context.Context, wid uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error) {
				applied = amount
				return &models.Wallet{ID: wid}, nil
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		req := models.WalletOperationRequest{
			WalletID:      walletID,
			OperationType: models.WithdrawalTransaction,
			Amount:        decimal.NewFromInt(30),
		}
		_, err := service.ApplyOperation(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(-30).Equal(applied))
	})

	t.Run("Success - Admin adjustment keeps signed amount", func(t *testing.T) {
		var applied decimal.Decimal
		mockRepo := &mockWalletRepo{
			ApplyTransactionFunc: func(ctx context.Context, wid uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error) {
				applied = amount
				return &models.Wallet{ID: wid}, nil
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		req := models.WalletOperationRequest{
			WalletID:      walletID,
			OperationType: models.AdminAdjustmentTransaction,
			Amount:        decimal.NewFromInt(-15),
		}
		_, err := service.ApplyOperation(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(-15).Equal(applied))
	})

	t.Run("Error - prediction type is not allowed over the API", func(t *testing.T) {
		service := NewWalletService(&mockWalletRepo{}, testLogger())

		req := models.WalletOperationRequest{
			WalletID:      walletID,
			OperationType: models.PredictionTransaction,
			Amount:        decimal.NewFromInt(10),
		}
		_, err := service.ApplyOperation(context.Background(), req)

		assert.ErrorIs(t, err, custom_err.ErrValidation)
	})

	t.Run("Error - non-positive deposit rejected", func(t *testing.T) {
		service := NewWalletService(&mockWalletRepo{}, testLogger())

		req := models.WalletOperationRequest{
			WalletID:      walletID,
			OperationType: models.DepositTransaction,
			Amount:        decimal.NewFromInt(-5),
		}
		_, err := service.ApplyOperation(context.Background(), req)

		assert.ErrorIs(t, err, custom_err.ErrValidation)
	})

	t.Run("Error - insufficient funds passes through", func(t *testing.T) {
		mockRepo := &mockWalletRepo{
			ApplyTransactionFunc: func(ctx context.Context, wid uuid.UUID, amount decimal.Decimal, txType models.TransactionType, description string) (*models.Wallet, error) {
				return nil, custom_err.ErrInsufficientFunds
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		req := models.WalletOperationRequest{
			WalletID:      walletID,
			OperationType: models.WithdrawalTransaction,
			Amount:        decimal.NewFromInt(100),
		}
		_, err := service.ApplyOperation(context.Background(), req)

		assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
	})
}

func TestWalletService_Transactions(t *testing.T) {
	walletID := uuid.New()

	t.Run("Error - unknown wallet", func(t *testing.T) {
		mockRepo := &mockWalletRepo{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
				return nil, custom_err.ErrNotFound
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		_, err := service.Transactions(context.Background(), walletID)
		assert.ErrorIs(t, err, custom_err.ErrNotFound)
	})

	t.Run("Success - history returned in commit order", func(t *testing.T) {
		history := []models.Transaction{
			{WalletID: walletID, Amount: decimal.NewFromInt(20)},
			{WalletID: walletID, Amount: decimal.NewFromInt(-10)},
		}
		mockRepo := &mockWalletRepo{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
				return &models.Wallet{ID: id, Balance: decimal.NewFromInt(10)}, nil
			},
			TransactionsFunc: func(ctx context.Context, wid uuid.UUID) ([]models.Transaction, error) {
				return history, nil
			},
		}
		service := NewWalletService(mockRepo, testLogger())

		transactions, err := service.Transactions(context.Background(), walletID)

		require.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.True(t, decimal.NewFromInt(10).Equal(SumOf(transactions)),
			"balance must equal the sum of the transaction log")
	})
}
