package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the current balance of an account.
type Balance struct {
	AccountID uuid.UUID       `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}
