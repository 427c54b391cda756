package models

import "github.com/shopspring/decimal"

type TransactionType string

const (
	DepositTransaction         TransactionType = "deposit"
	WithdrawalTransaction      TransactionType = "withdrawal"
	PredictionTransaction      TransactionType = "prediction"
	AdminAdjustmentTransaction TransactionType = "admin_adjustment"
)

func (tt TransactionType) IsValid() bool {
	switch tt {
	case DepositTransaction, WithdrawalTransaction, PredictionTransaction, AdminAdjustmentTransaction:
		return true
	}
	return false
}

// Тарифная сетка стоимости предсказаний.
var (
	CostBasic        = decimal.NewFromInt(10)
	CostSubscription = decimal.NewFromInt(5)
	CostAdmin        = decimal.Zero
	CostBonus        = decimal.NewFromInt(20)
)

// CostFor возвращает стоимость одного предсказания для пользователя:
// администраторы не платят, остальные платят базовый тариф.
func CostFor(isAdmin bool) decimal.Decimal {
	if isAdmin {
		return CostAdmin
	}
	return CostBasic
}
