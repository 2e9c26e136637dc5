// Package memory is an in-process ledger store for service and handler tests.
//
// Every Do holds the store lock for its whole duration, which makes units of
// work serializable, and restores a snapshot when the function fails. A
// nested Do snapshots again without re-locking, mirroring a savepoint.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/domain/alert"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds the tables. The hooks, when set, run before the matching insert
// and abort it with their error.
type Store struct {
	mu           sync.Mutex
	users        map[uuid.UUID]user.User
	accounts     map[uuid.UUID]account.Account
	transactions []account.Transaction
	alerts       []alert.Alert

	TransactionHook func(tx *account.Transaction) error
	AlertHook       func(a *alert.Alert) error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    map[uuid.UUID]user.User{},
		accounts: map[uuid.UUID]account.Account{},
	}
}

// transactions are append-only, so a snapshot only keeps their count.
type snapshot struct {
	users        map[uuid.UUID]user.User
	accounts     map[uuid.UUID]account.Account
	transactions int
	alerts       []alert.Alert
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		users:        make(map[uuid.UUID]user.User, len(s.users)),
		accounts:     make(map[uuid.UUID]account.Account, len(s.accounts)),
		transactions: len(s.transactions),
		alerts:       append([]alert.Alert(nil), s.alerts...),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.accounts = snap.accounts
	s.transactions = s.transactions[:snap.transactions]
	s.alerts = snap.alerts
}

// UoW implements repository.UnitOfWork over a Store.
type UoW struct {
	store *Store
	inTx  bool
}

// NewUoW returns a unit of work over store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn serialized against every other unit of work and rolls the store
// back when fn returns an error or panics.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	snap := u.store.snapshot()
	defer func() {
		if r := recover(); r != nil {
			u.store.restore(snap)
			panic(r)
		}
		if err != nil {
			u.store.restore(snap)
		}
	}()
	return fn(&UoW{store: u.store, inTx: true})
}

// DoReadOnly runs fn under the store lock and discards anything it writes.
func (u *UoW) DoReadOnly(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	snap := u.store.snapshot()
	defer u.store.restore(snap)
	return fn(&UoW{store: u.store, inTx: true})
}

// GetRepository returns the repository of the requested interface type.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return &accountRepo{u}, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return &transactionRepo{u}, nil
	case reflect.TypeOf((*repository.UserRepository)(nil)).Elem():
		return &userRepo{u}, nil
	case reflect.TypeOf((*repository.AlertRepository)(nil)).Elem():
		return &alertRepo{u}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{u}, nil
}

func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{u}, nil
}

func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return &userRepo{u}, nil
}

func (u *UoW) AlertRepository() (repository.AlertRepository, error) {
	return &alertRepo{u}, nil
}

// locked runs fn with the store lock held, taking it only outside a unit of work.
func (u *UoW) locked(fn func(s *Store) error) error {
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	return fn(u.store)
}

// Balance returns the stored balance of an account, for assertions.
func (s *Store) Balance(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].Balance
}

// Transactions returns a copy of every stored entry of the account in insertion order.
func (s *Store) Transactions(accountID uuid.UUID) []account.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []account.Transaction
	for _, tx := range s.transactions {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

// Alerts returns a copy of every stored alert.
func (s *Store) Alerts() []alert.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]alert.Alert(nil), s.alerts...)
}

// PutUser stores a copy of u directly, bypassing the services.
func (s *Store) PutUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

// PutAccount stores a copy of a directly, bypassing the services.
func (s *Store) PutAccount(a *account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = *a
}

type accountRepo struct{ u *UoW }

func (r *accountRepo) Create(_ context.Context, a *account.Account) error {
	return r.u.locked(func(s *Store) error {
		if _, ok := s.users[a.UserID]; !ok {
			return user.ErrUserNotFound
		}
		s.accounts[a.ID] = *a
		return nil
	})
}

func (r *accountRepo) Get(_ context.Context, id uuid.UUID) (out *account.Account, err error) {
	err = r.u.locked(func(s *Store) error {
		a, ok := s.accounts[id]
		if !ok {
			return account.ErrAccountNotFound
		}
		out = &a
		return nil
	})
	return
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.Get(ctx, id)
}

func (r *accountRepo) ListByUser(_ context.Context, userID uuid.UUID) (out []*account.Account, err error) {
	err = r.u.locked(func(s *Store) error {
		for _, a := range s.accounts {
			if a.UserID == userID {
				a := a
				out = append(out, &a)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return nil
	})
	return
}

func (r *accountRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return r.update(id, func(a *account.Account) { a.Balance = money.Round(balance) })
}

func (r *accountRepo) UpdateStatus(_ context.Context, id uuid.UUID, status account.Status) error {
	return r.update(id, func(a *account.Account) { a.Status = status })
}

func (r *accountRepo) update(id uuid.UUID, set func(a *account.Account)) error {
	return r.u.locked(func(s *Store) error {
		a, ok := s.accounts[id]
		if !ok {
			return account.ErrAccountNotFound
		}
		set(&a)
		a.UpdatedAt = time.Now().UTC()
		s.accounts[id] = a
		return nil
	})
}

type transactionRepo struct{ u *UoW }

func (r *transactionRepo) Create(_ context.Context, tx *account.Transaction) error {
	return r.u.locked(func(s *Store) error {
		if s.TransactionHook != nil {
			if err := s.TransactionHook(tx); err != nil {
				return err
			}
		}
		if _, ok := s.accounts[tx.AccountID]; !ok {
			return account.ErrAccountNotFound
		}
		s.transactions = append(s.transactions, *tx)
		return nil
	})
}

func (r *transactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID, page dto.Page) ([]*account.Transaction, error) {
	return r.newestFirst(page, func(s *Store, tx account.Transaction) bool {
		return tx.AccountID == accountID
	})
}

func (r *transactionRepo) ListByUser(_ context.Context, userID uuid.UUID, page dto.Page) ([]*account.Transaction, error) {
	return r.newestFirst(page, func(s *Store, tx account.Transaction) bool {
		return s.accounts[tx.AccountID].UserID == userID
	})
}

func (r *transactionRepo) ListAllByAccount(_ context.Context, accountID uuid.UUID) (out []*account.Transaction, err error) {
	err = r.u.locked(func(s *Store) error {
		for _, tx := range s.transactions {
			if tx.AccountID == accountID {
				tx := tx
				out = append(out, &tx)
			}
		}
		return nil
	})
	return
}

func (r *transactionRepo) newestFirst(
	page dto.Page,
	match func(s *Store, tx account.Transaction) bool,
) (out []*account.Transaction, err error) {
	page = page.Normalize()
	err = r.u.locked(func(s *Store) error {
		skipped := 0
		for i := len(s.transactions) - 1; i >= 0 && len(out) < page.Limit; i-- {
			tx := s.transactions[i]
			if !match(s, tx) {
				continue
			}
			if skipped < page.Offset {
				skipped++
				continue
			}
			out = append(out, &tx)
		}
		return nil
	})
	return
}

func (r *transactionRepo) SummarizeByUser(_ context.Context, userID uuid.UUID) (out []dto.KindSummary, err error) {
	err = r.u.locked(func(s *Store) error {
		byKind := map[string]*dto.KindSummary{}
		for _, tx := range s.transactions {
			if tx.Status != account.TransactionCompleted || s.accounts[tx.AccountID].UserID != userID {
				continue
			}
			sum, ok := byKind[string(tx.Kind)]
			if !ok {
				sum = &dto.KindSummary{Kind: string(tx.Kind), Sum: decimal.Zero}
				byKind[string(tx.Kind)] = sum
			}
			sum.Count++
			sum.Sum = sum.Sum.Add(tx.Amount)
		}
		for _, v := range byKind {
			out = append(out, *v)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
		return nil
	})
	return
}

type userRepo struct{ u *UoW }

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	return r.u.locked(func(s *Store) error {
		for _, existing := range s.users {
			if existing.Email == u.Email {
				return user.ErrEmailTaken
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (out *user.User, err error) {
	err = r.u.locked(func(s *Store) error {
		u, ok := s.users[id]
		if !ok {
			return user.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (out *user.User, err error) {
	err = r.u.locked(func(s *Store) error {
		for _, u := range s.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return user.ErrUserNotFound
	})
	return
}

type alertRepo struct{ u *UoW }

func (r *alertRepo) Create(_ context.Context, a *alert.Alert) error {
	return r.u.locked(func(s *Store) error {
		if s.AlertHook != nil {
			if err := s.AlertHook(a); err != nil {
				return err
			}
		}
		s.alerts = append(s.alerts, *a)
		return nil
	})
}

func (r *alertRepo) ListByRecipient(_ context.Context, recipient string, page dto.Page) (out []*alert.Alert, err error) {
	page = page.Normalize()
	err = r.u.locked(func(s *Store) error {
		skipped := 0
		for i := len(s.alerts) - 1; i >= 0 && len(out) < page.Limit; i-- {
			a := s.alerts[i]
			if a.Recipient != recipient {
				continue
			}
			if skipped < page.Offset {
				skipped++
				continue
			}
			out = append(out, &a)
		}
		return nil
	})
	return
}

func (r *alertRepo) ListPending(_ context.Context, limit int) (out []*alert.Alert, err error) {
	err = r.u.locked(func(s *Store) error {
		for _, a := range s.alerts {
			if len(out) >= limit {
				break
			}
			if !a.Sent {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	return
}

func (r *alertRepo) MarkSent(_ context.Context, ids []uuid.UUID) error {
	return r.u.locked(func(s *Store) error {
		want := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			want[id] = struct{}{}
		}
		now := time.Now().UTC()
		for i := range s.alerts {
			if _, ok := want[s.alerts[i].ID]; ok {
				s.alerts[i].MarkSent(now)
			}
		}
		return nil
	})
}
