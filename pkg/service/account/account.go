// Package account provides the account lifecycle: opening accounts, reading
// details and balances, status changes and transaction history.
//
// Every operation runs inside a unit of work. Status changes read the account
// row for update so they serialize with ledger mutations on the same account.
package account

import (
	"context"
	"log/slog"

	"github.com/amirasaad/bankapi/pkg/commands"
	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
)

// Service provides account lifecycle operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateAccount opens a zero balance, active account for an existing user.
// The type defaults to savings and the currency to the default currency.
func (s *Service) CreateAccount(
	ctx context.Context,
	cmd commands.CreateAccount,
) (acct *account.Account, err error) {
	logger := s.logger.With("userID", cmd.UserID, "type", cmd.Type, "currency", cmd.Currency)
	logger.Info("CreateAccount started")

	builder := account.New().
		WithUserID(cmd.UserID).
		WithCurrency(money.Code(cmd.Currency))
	if cmd.Type != "" {
		builder = builder.WithType(account.Type(cmd.Type))
	}
	acct, err = builder.Build()
	if err != nil {
		logger.Error("CreateAccount failed: domain error", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err = users.Get(ctx, cmd.UserID); err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, acct)
	})
	if err != nil {
		logger.Error("CreateAccount failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	logger.Info("CreateAccount successful", "accountID", acct.ID)
	return acct, nil
}

// GetAccount returns the account details. Locked accounts are hidden.
func (s *Service) GetAccount(
	ctx context.Context,
	accountID uuid.UUID,
) (acct *account.Account, err error) {
	acct, err = s.get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err = acct.EnsureReadable(); err != nil {
		s.logger.Warn("GetAccount refused", "accountID", accountID, "error", err)
		return nil, err
	}
	return acct, nil
}

// GetBalance returns the balance of the account whatever its status.
func (s *Service) GetBalance(
	ctx context.Context,
	accountID uuid.UUID,
) (*dto.Balance, error) {
	acct, err := s.get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &dto.Balance{
		AccountID: acct.ID,
		Balance:   acct.Balance,
		Currency:  string(acct.Currency),
	}, nil
}

func (s *Service) get(ctx context.Context, accountID uuid.UUID) (acct *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err = repo.Get(ctx, accountID)
		return err
	})
	if err != nil {
		s.logger.Error("GetAccount failed", "accountID", accountID, "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	return acct, nil
}

// LockAccount moves an active account to locked. Locking a locked account
// changes nothing.
func (s *Service) LockAccount(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	return s.transition(ctx, "LockAccount", accountID, func(a *account.Account) (bool, error) {
		return a.Lock()
	})
}

// UnlockAccount moves a locked account back to active.
func (s *Service) UnlockAccount(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	return s.transition(ctx, "UnlockAccount", accountID, func(a *account.Account) (bool, error) {
		return true, a.Unlock()
	})
}

// CloseAccount retires an account whose balance is zero.
func (s *Service) CloseAccount(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	return s.transition(ctx, "CloseAccount", accountID, func(a *account.Account) (bool, error) {
		return true, a.Close()
	})
}

func (s *Service) transition(
	ctx context.Context,
	op string,
	accountID uuid.UUID,
	apply func(a *account.Account) (bool, error),
) (acct *account.Account, err error) {
	logger := s.logger.With("accountID", accountID)
	logger.Info(op + " started")
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err = repo.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		changed, err := apply(acct)
		if err != nil || !changed {
			return err
		}
		return repo.UpdateStatus(ctx, acct.ID, acct.Status)
	})
	if err != nil {
		logger.Error(op+" failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	logger.Info(op+" successful", "status", acct.Status)
	return acct, nil
}

// ListAccounts returns the accounts of an existing user, oldest first.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) (accounts []*account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err = users.Get(ctx, userID); err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = repo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("ListAccounts failed", "userID", userID, "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	return accounts, nil
}

// ListTransactions returns the entries of an account, newest first.
func (s *Service) ListTransactions(
	ctx context.Context,
	accountID uuid.UUID,
	page dto.Page,
) (txs []*account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err = accounts.Get(ctx, accountID); err != nil {
			return err
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByAccount(ctx, accountID, page)
		return err
	})
	if err != nil {
		s.logger.Error("ListTransactions failed", "accountID", accountID, "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	return txs, nil
}

// ListUserTransactions returns the entries of every account of a user, newest first.
func (s *Service) ListUserTransactions(
	ctx context.Context,
	userID uuid.UUID,
	page dto.Page,
) (txs []*account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err = users.Get(ctx, userID); err != nil {
			return err
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByUser(ctx, userID, page)
		return err
	})
	if err != nil {
		s.logger.Error("ListUserTransactions failed", "userID", userID, "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	return txs, nil
}
