package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletOperationRequest — запрос на операцию с балансом через HTTP API.
// Для deposit и withdrawal сумма положительная, знак проставляет сервис;
// admin_adjustment передает сумму со знаком.
type WalletOperationRequest struct {
	WalletID      uuid.UUID       `json:"walletId"`
	OperationType TransactionType `json:"operationType"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

type PredictionRequest struct {
	UserID uuid.UUID `json:"userId"`
	Text   string    `json:"text"`
	Top    int       `json:"top"`
}
