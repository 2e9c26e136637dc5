package transaction

import "github.com/shopspring/decimal"

// Amounts accept JSON numbers or decimal strings; they are rounded to two
// digits by the ledger.

// DepositRequest represents the request body for depositing funds into an account.
type DepositRequest struct {
	AccountID string          `json:"account_id" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
}

// WithdrawRequest represents the request body for withdrawing funds from an account.
type WithdrawRequest struct {
	AccountID string          `json:"account_id" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransferRequest represents the request body for transferring funds between accounts.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id" validate:"required,uuid"`
	ToAccountID   string          `json:"to_account_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
}
