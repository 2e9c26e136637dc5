// Package ledger moves money: deposits, withdrawals and transfers.
//
// Each operation is a single unit of work. Account rows are read with a row
// lock so the balance check and the balance update cannot interleave with a
// concurrent mutation of the same account. Every balance change is written
// together with its ledger entry; a failed precondition aborts the unit before
// anything is written.
package ledger

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/amirasaad/bankapi/pkg/commands"
	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/domain/alert"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the outcome of a deposit or withdrawal.
type Receipt struct {
	Account     *account.Account
	Transaction *account.Transaction
}

// TransferReceipt is the outcome of a transfer.
type TransferReceipt struct {
	From *account.Account
	To   *account.Account
	// Debit is the transfer entry of From, Credit the deposit entry of To.
	Debit  *account.Transaction
	Credit *account.Transaction
}

// Service provides the ledger mutation operations.
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

// Deposit credits an active account. An empty currency means the default
// currency; it must match the account currency.
func (s *Service) Deposit(ctx context.Context, cmd commands.Deposit) (*Receipt, error) {
	logger := s.logger.With("accountID", cmd.AccountID, "amount", cmd.Amount, "currency", cmd.Currency)
	logger.Info("Deposit started")

	amount, err := account.ValidateAmount(cmd.Amount)
	if err != nil {
		logger.Error("Deposit failed: invalid amount", "error", err)
		return nil, err
	}
	currency := money.Code(cmd.Currency)
	if currency == "" {
		currency = money.DefaultCode
	}
	if err = account.ValidateCurrency(currency); err != nil {
		logger.Error("Deposit failed: invalid currency", "error", err)
		return nil, err
	}

	var receipt Receipt
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acct, err := lockAccount(ctx, uow, cmd.AccountID)
		if err != nil {
			return err
		}
		tx, err := acct.Deposit(amount, currency)
		if err != nil {
			return err
		}
		if err = record(ctx, uow, acct, tx); err != nil {
			return err
		}
		receipt = Receipt{Account: acct, Transaction: tx}
		return nil
	})
	if err != nil {
		logger.Error("Deposit failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	logger.Info("Deposit successful", "transactionID", receipt.Transaction.ID, "balance", receipt.Account.Balance)
	return &receipt, nil
}

// Withdraw debits an active account in its own currency. The balance never
// goes below zero.
func (s *Service) Withdraw(ctx context.Context, cmd commands.Withdraw) (*Receipt, error) {
	logger := s.logger.With("accountID", cmd.AccountID, "amount", cmd.Amount)
	logger.Info("Withdraw started")

	amount, err := account.ValidateAmount(cmd.Amount)
	if err != nil {
		logger.Error("Withdraw failed: invalid amount", "error", err)
		return nil, err
	}

	var receipt Receipt
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acct, err := lockAccount(ctx, uow, cmd.AccountID)
		if err != nil {
			return err
		}
		tx, err := acct.Withdraw(amount)
		if err != nil {
			return err
		}
		if err = record(ctx, uow, acct, tx); err != nil {
			return err
		}
		receipt = Receipt{Account: acct, Transaction: tx}
		return nil
	})
	if err != nil {
		logger.Error("Withdraw failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	logger.Info("Withdraw successful", "transactionID", receipt.Transaction.ID, "balance", receipt.Account.Balance)
	return &receipt, nil
}

// Transfer moves funds between two active accounts of the same currency and
// records a debit notice and a credit notice for the owners. Notices are
// best effort: failing to record them does not fail the transfer.
func (s *Service) Transfer(ctx context.Context, cmd commands.Transfer) (*TransferReceipt, error) {
	logger := s.logger.With("from", cmd.FromAccountID, "to", cmd.ToAccountID, "amount", cmd.Amount)
	logger.Info("Transfer started")

	amount, err := account.ValidateAmount(cmd.Amount)
	if err != nil {
		logger.Error("Transfer failed: invalid amount", "error", err)
		return nil, err
	}
	if cmd.FromAccountID == cmd.ToAccountID {
		logger.Error("Transfer failed", "error", account.ErrCannotTransferToSameAccount)
		return nil, account.ErrCannotTransferToSameAccount
	}

	var receipt TransferReceipt
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		from, to, err := lockPair(ctx, uow, cmd.FromAccountID, cmd.ToAccountID)
		if err != nil {
			return err
		}
		debit, credit, err := account.Transfer(from, to, amount)
		if err != nil {
			return err
		}
		if err = record(ctx, uow, from, debit); err != nil {
			return err
		}
		if err = record(ctx, uow, to, credit); err != nil {
			return err
		}
		receipt = TransferReceipt{From: from, To: to, Debit: debit, Credit: credit}

		if err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
			return notify(ctx, uow, from, to, amount)
		}); err != nil {
			logger.Warn("Transfer alerts not recorded", "error", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Transfer failed", "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	logger.Info("Transfer successful",
		"debitID", receipt.Debit.ID,
		"creditID", receipt.Credit.ID,
		"fromBalance", receipt.From.Balance,
	)
	return &receipt, nil
}

func lockAccount(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*account.Account, error) {
	repo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.GetForUpdate(ctx, id)
}

// lockPair locks both rows in ascending id order so opposite transfers
// between the same accounts cannot deadlock.
func lockPair(ctx context.Context, uow repository.UnitOfWork, fromID, toID uuid.UUID) (from, to *account.Account, err error) {
	first, second := fromID, toID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}
	a, err := lockAccount(ctx, uow, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := lockAccount(ctx, uow, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == fromID {
		return a, b, nil
	}
	return b, a, nil
}

// record persists the new balance of acct together with its entry.
func record(ctx context.Context, uow repository.UnitOfWork, acct *account.Account, tx *account.Transaction) error {
	accounts, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	if err = accounts.UpdateBalance(ctx, acct.ID, acct.Balance); err != nil {
		return err
	}
	txs, err := uow.TransactionRepository()
	if err != nil {
		return err
	}
	return txs.Create(ctx, tx)
}

func notify(ctx context.Context, uow repository.UnitOfWork, from, to *account.Account, amount decimal.Decimal) error {
	users, err := uow.UserRepository()
	if err != nil {
		return err
	}
	sender, err := users.Get(ctx, from.UserID)
	if err != nil {
		return err
	}
	recipient, err := users.Get(ctx, to.UserID)
	if err != nil {
		return err
	}
	alerts, err := uow.AlertRepository()
	if err != nil {
		return err
	}
	if err = alerts.Create(ctx, alert.Debit(sender.Email, amount, from.Currency, to.ID)); err != nil {
		return err
	}
	return alerts.Create(ctx, alert.Credit(recipient.Email, amount, to.Currency, from.ID))
}
