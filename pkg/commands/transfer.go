package commands

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer moves funds between two accounts of the same currency.
type Transfer struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
}
