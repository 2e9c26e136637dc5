package repository

import (
	"context"

	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository returns a gorm backed ledger entry repository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	m := transactionFromDomain(tx)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *transactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	page dto.Page,
) ([]*account.Transaction, error) {
	page = page.Normalize()
	return r.list(r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset))
}

func (r *transactionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	page dto.Page,
) ([]*account.Transaction, error) {
	page = page.Normalize()
	return r.list(r.db.WithContext(ctx).
		Select("transactions.*").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", userID).
		Order("transactions.created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset))
}

func (r *transactionRepository) ListAllByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	return r.list(r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC"))
}

func (r *transactionRepository) list(q *gorm.DB) ([]*account.Transaction, error) {
	var rows []Transaction
	if err := WrapError(func() error {
		return q.Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	out := make([]*account.Transaction, 0, len(rows))
	for _, m := range rows {
		out = append(out, transactionToDomain(m))
	}
	return out, nil
}

type kindSummaryRow struct {
	Kind  string
	Count int64
	Sum   decimal.Decimal
}

func (r *transactionRepository) SummarizeByUser(ctx context.Context, userID uuid.UUID) ([]dto.KindSummary, error) {
	var rows []kindSummaryRow
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Model(&Transaction{}).
			Select("transactions.kind AS kind, COUNT(*) AS count, COALESCE(SUM(transactions.amount), 0) AS sum").
			Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Where("accounts.user_id = ? AND transactions.status = ?", userID, string(account.TransactionCompleted)).
			Group("transactions.kind").
			Order("transactions.kind").
			Scan(&rows).Error
	}); err != nil {
		return nil, err
	}
	out := make([]dto.KindSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.KindSummary{Kind: row.Kind, Count: row.Count, Sum: money.Round(row.Sum)})
	}
	return out, nil
}

func transactionFromDomain(tx *account.Transaction) Transaction {
	return Transaction{
		ID:             tx.ID,
		AccountID:      tx.AccountID,
		Kind:           string(tx.Kind),
		Amount:         tx.Amount,
		Currency:       string(tx.Currency),
		Status:         string(tx.Status),
		Balance:        tx.Balance,
		CounterpartyID: tx.CounterpartyID,
		CreatedAt:      tx.CreatedAt,
	}
}

func transactionToDomain(m Transaction) *account.Transaction {
	return &account.Transaction{
		ID:             m.ID,
		AccountID:      m.AccountID,
		Kind:           account.Kind(m.Kind),
		Amount:         money.Round(m.Amount),
		Currency:       money.Code(m.Currency),
		Status:         account.TransactionStatus(m.Status),
		Balance:        money.Round(m.Balance),
		CounterpartyID: m.CounterpartyID,
		CreatedAt:      m.CreatedAt,
	}
}
