package commands

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdraw debits an account in its own currency.
type Withdraw struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}
