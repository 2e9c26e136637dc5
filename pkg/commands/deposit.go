// Package commands contains command DTOs for service and handler orchestration.
package commands

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit credits an account. An empty Currency means the default currency.
type Deposit struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Currency  string
}
