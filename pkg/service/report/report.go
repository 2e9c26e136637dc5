// Package report provides read-only views over the ledger.
package report

import (
	"context"
	"log/slog"

	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service builds dashboards and reconciliations.
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

// GetUsersDashboard aggregates a user's accounts and entries from one
// consistent snapshot. TotalBalance adds balances across currencies as
// plain numbers; ByCurrency keeps them apart.
func (s *Service) GetUsersDashboard(ctx context.Context, userID uuid.UUID) (*dto.Dashboard, error) {
	logger := s.logger.With("userID", userID)
	logger.Info("GetUsersDashboard started")

	board := &dto.Dashboard{
		UserID:       userID,
		TotalBalance: decimal.Zero,
		ByCurrency:   map[string]decimal.Decimal{},
		ByType:       map[string]decimal.Decimal{},
	}
	err := s.uow.DoReadOnly(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err = users.Get(ctx, userID); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		list, err := accounts.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, a := range list {
			board.AccountCount++
			board.TotalBalance = board.TotalBalance.Add(a.Balance)
			board.ByCurrency[string(a.Currency)] = board.ByCurrency[string(a.Currency)].Add(a.Balance)
			board.ByType[string(a.Type)] = board.ByType[string(a.Type)].Add(a.Balance)
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		board.ByKind, err = txs.SummarizeByUser(ctx, userID)
		return err
	})
	if err != nil {
		logger.Error("GetUsersDashboard failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	board.TotalBalance = money.Round(board.TotalBalance)
	logger.Info("GetUsersDashboard successful", "accounts", board.AccountCount)
	return board, nil
}

// Reconcile replays the account's completed entries and compares the result
// with the stored balance.
func (s *Service) Reconcile(ctx context.Context, accountID uuid.UUID) (*dto.Reconciliation, error) {
	logger := s.logger.With("accountID", accountID)
	var rec dto.Reconciliation
	err := s.uow.DoReadOnly(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		entries, err := txs.ListAllByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		ledger := account.Replay(entries)
		rec = dto.Reconciliation{
			AccountID:     acct.ID,
			StoredBalance: acct.Balance,
			LedgerBalance: ledger,
			EntryCount:    len(entries),
			Consistent:    ledger.Equal(acct.Balance),
		}
		return nil
	})
	if err != nil {
		logger.Error("Reconcile failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	if !rec.Consistent {
		logger.Warn("Reconcile found drift", "stored", rec.StoredBalance, "ledger", rec.LedgerBalance)
	}
	return &rec, nil
}
