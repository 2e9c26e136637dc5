package account

import (
	"time"

	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the type of a ledger entry.
type Kind string

// Entry kinds. The credit leg of a transfer is recorded as a deposit.
const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindTransfer   Kind = "transfer"
)

// TransactionStatus is the lifecycle state of an entry. Only completed entries
// are produced.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry of one account.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Kind      Kind
	Amount    decimal.Decimal
	Currency  money.Code
	Status    TransactionStatus
	// Balance is the account balance right after this entry.
	Balance decimal.Decimal
	// CounterpartyID is the other account of a transfer leg.
	CounterpartyID *uuid.UUID
	CreatedAt      time.Time
}

func newTransaction(a *Account, kind Kind, amount decimal.Decimal, counterparty *uuid.UUID) *Transaction {
	return &Transaction{
		ID:             uuid.New(),
		AccountID:      a.ID,
		Kind:           kind,
		Amount:         amount,
		Currency:       a.Currency,
		Status:         TransactionCompleted,
		Balance:        a.Balance,
		CounterpartyID: counterparty,
		CreatedAt:      time.Now().UTC(),
	}
}

// Signed returns the entry's effect on its account balance: deposits add,
// withdrawals and outgoing transfers subtract. Non-completed entries count zero.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Status != TransactionCompleted {
		return decimal.Zero
	}
	switch t.Kind {
	case KindDeposit:
		return t.Amount
	case KindWithdrawal, KindTransfer:
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// Replay sums the signed effect of entries.
func Replay(entries []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Signed())
	}
	return money.Round(sum)
}
