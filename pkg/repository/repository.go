package repository

import (
	"context"

	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/domain/alert"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	Create(ctx context.Context, account *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// GetForUpdate reads the account and holds a row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status account.Status) error
}

// TransactionRepository defines the interface for ledger entry access. Entries
// are append-only.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	// ListByAccount returns entries newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, page dto.Page) ([]*account.Transaction, error)
	// ListByUser returns entries of all the user's accounts, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, page dto.Page) ([]*account.Transaction, error)
	// ListAllByAccount returns every entry of the account, oldest first.
	ListAllByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error)
	// SummarizeByUser returns completed entry counts and sums per kind.
	SummarizeByUser(ctx context.Context, userID uuid.UUID) ([]dto.KindSummary, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// AlertRepository stores notifications awaiting delivery.
type AlertRepository interface {
	Create(ctx context.Context, alert *alert.Alert) error
	// ListByRecipient returns alerts newest first.
	ListByRecipient(ctx context.Context, recipient string, page dto.Page) ([]*alert.Alert, error)
	// ListPending returns up to limit unsent alerts, oldest first, locked so
	// concurrent dispatchers skip them.
	ListPending(ctx context.Context, limit int) ([]*alert.Alert, error)
	MarkSent(ctx context.Context, ids []uuid.UUID) error
}
