package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KindSummary aggregates the completed entries of one kind.
type KindSummary struct {
	Kind  string          `json:"kind"`
	Count int64           `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// Dashboard is a read-only overview of a user's money.
type Dashboard struct {
	UserID       uuid.UUID                  `json:"user_id"`
	AccountCount int                        `json:"account_count"`
	TotalBalance decimal.Decimal            `json:"total_balance"`
	ByCurrency   map[string]decimal.Decimal `json:"balance_by_currency"`
	ByType       map[string]decimal.Decimal `json:"balance_by_type"`
	ByKind       []KindSummary              `json:"transactions_by_kind"`
}

// Reconciliation compares an account's stored balance with its replayed ledger.
type Reconciliation struct {
	AccountID     uuid.UUID       `json:"account_id"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	EntryCount    int             `json:"entry_count"`
	Consistent    bool            `json:"consistent"`
}
