package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a gorm backed account repository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := accountFromDomain(a)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *accountRepository) get(db *gorm.DB, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := wrapNotFound(account.ErrAccountNotFound, func() error {
		return db.Where("id = ?", id).First(&m).Error
	}); err != nil {
		return nil, err
	}
	return accountToDomain(m), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var rows []Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	out := make([]*account.Account, 0, len(rows))
	for _, m := range rows {
		out = append(out, accountToDomain(m))
	}
	return out, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return r.update(ctx, id, map[string]any{"balance": balance})
}

func (r *accountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	return r.update(ctx, id, map[string]any{"status": string(status)})
}

func (r *accountRepository) update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return wrapNotFound(account.ErrAccountNotFound, func() error {
		res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func accountFromDomain(a *account.Account) Account {
	return Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Type:      string(a.Type),
		Balance:   a.Balance,
		Currency:  string(a.Currency),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func accountToDomain(m Account) *account.Account {
	return &account.Account{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      account.Type(m.Type),
		Balance:   money.Round(m.Balance),
		Currency:  money.Code(m.Currency),
		Status:    account.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
