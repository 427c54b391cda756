package service

import (
	"api_recommender/internal/custom_err"
	"api_recommender/internal/models"
	"api_recommender/internal/repository"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletServicer описывает, что должен уметь сервис кошелька.
type WalletServicer interface {
	RegisterWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	ApplyOperation(ctx context.Context, req models.WalletOperationRequest) (*models.Wallet, error)
	GetWalletByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	Transactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)
}

var _ WalletServicer = (*WalletService)(nil)

type WalletService struct {
	repo repository.Wallet
	log  *slog.Logger
}

func NewWalletService(repo repository.Wallet, log *slog.Logger) *WalletService {
	return &WalletService{repo: repo, log: log}
}

// RegisterWallet создает кошелек с нулевым балансом и сразу начисляет
// приветственный бонус отдельной транзакцией.
func (s *WalletService) RegisterWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	const op = "service.Wallet.RegisterWallet"

	wallet, err := s.repo.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wallet, err = s.repo.ApplyTransaction(ctx, wallet.ID, models.CostBonus,
		models.DepositTransaction, "приветственный бонус")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("кошелек создан",
		slog.String("op", op),
		slog.String("wallet_id", wallet.ID.String()),
		slog.String("user_id", userID.String()))
	return wallet, nil
}

// ApplyOperation проводит операцию по кошельку из HTTP API. Операции типа
// prediction здесь запрещены: их проводит только оркестратор рекомендаций.
func (s *WalletService) ApplyOperation(ctx context.Context, req models.WalletOperationRequest) (*models.Wallet, error) {
	const op = "service.Wallet.ApplyOperation"

	if !req.OperationType.IsValid() || req.OperationType == models.PredictionTransaction {
		return nil, custom_err.ErrValidation
	}

	amount := req.Amount
	switch req.OperationType {
	case models.DepositTransaction:
		if !amount.IsPositive() {
			return nil, custom_err.ErrValidation
		}
	case models.WithdrawalTransaction:
		if !amount.IsPositive() {
			return nil, custom_err.ErrValidation
		}
		amount = amount.Neg()
	case models.AdminAdjustmentTransaction:
		// Корректировка администратора может быть в любую сторону,
		// знак суммы сохраняется.
		if amount.IsZero() {
			return nil, custom_err.ErrValidation
		}
	}

	wallet, err := s.repo.ApplyTransaction(ctx, req.WalletID, amount, req.OperationType, req.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("операция проведена",
		slog.String("op", op),
		slog.String("wallet_id", req.WalletID.String()),
		slog.String("type", string(req.OperationType)),
		slog.String("amount", amount.String()))
	return wallet, nil
}

func (s *WalletService) GetWalletByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	const op = "service.Wallet.GetWalletByID"

	wallet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}

func (s *WalletService) Transactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	const op = "service.Wallet.Transactions"

	// Кошелек должен существовать, иначе пустая история неотличима от опечатки в ID.
	if _, err := s.repo.GetByID(ctx, walletID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transactions, err := s.repo.Transactions(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return transactions, nil
}

// SumOf возвращает сумму всех транзакций — инвариант сохранения требует,
// чтобы она всегда совпадала с балансом кошелька.
func SumOf(transactions []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(t.Amount)
	}
	return sum
}
