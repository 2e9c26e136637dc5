package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/amirasaad/bankapi/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out by a UoW inside Do share its transaction.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():     func(db *gorm.DB) any { return NewAccountRepository(db) },
			reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem(): func(db *gorm.DB) any { return NewTransactionRepository(db) },
			reflect.TypeOf((*repository.UserRepository)(nil)).Elem():        func(db *gorm.DB) any { return NewUserRepository(db) },
			reflect.TypeOf((*repository.AlertRepository)(nil)).Elem():       func(db *gorm.DB) any { return NewAlertRepository(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
// Inside an existing transaction it opens a savepoint instead.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.session().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// DoReadOnly runs fn in a read-only repeatable read transaction so every
// query sees the same snapshot.
func (u *UoW) DoReadOnly(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	}, opts)
}

// GetRepository provides access to repositories using the transaction session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// AccountRepository returns the account repository bound to this unit.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return getRepo[repository.AccountRepository](u)
}

// TransactionRepository returns the ledger entry repository bound to this unit.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return getRepo[repository.TransactionRepository](u)
}

// UserRepository returns the user repository bound to this unit.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return getRepo[repository.UserRepository](u)
}

// AlertRepository returns the alert repository bound to this unit.
func (u *UoW) AlertRepository() (repository.AlertRepository, error) {
	return getRepo[repository.AlertRepository](u)
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func getRepo[T any](u *UoW) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository %T does not implement %v", repoAny, reflect.TypeOf((*T)(nil)).Elem())
	}
	return repo, nil
}
