// Package mapper converts domain records into their API read models.
package mapper

import (
	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/domain/alert"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/service/ledger"
	"github.com/shopspring/decimal"
)

func fixed(d decimal.Decimal) string {
	return d.StringFixed(money.Scale)
}

// MapAccountToRead maps a domain Account to a dto.AccountRead.
func MapAccountToRead(a *account.Account) *dto.AccountRead {
	if a == nil {
		return nil
	}
	return &dto.AccountRead{
		ID:        a.ID,
		UserID:    a.UserID,
		Type:      string(a.Type),
		Balance:   fixed(a.Balance),
		Currency:  string(a.Currency),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func MapAccountsToRead(list []*account.Account) []*dto.AccountRead {
	out := make([]*dto.AccountRead, 0, len(list))
	for _, a := range list {
		out = append(out, MapAccountToRead(a))
	}
	return out
}

// MapTransactionToRead maps a ledger entry to a dto.TransactionRead.
func MapTransactionToRead(tx *account.Transaction) *dto.TransactionRead {
	if tx == nil {
		return nil
	}
	return &dto.TransactionRead{
		ID:             tx.ID,
		AccountID:      tx.AccountID,
		Kind:           string(tx.Kind),
		Amount:         fixed(tx.Amount),
		Currency:       string(tx.Currency),
		Status:         string(tx.Status),
		Balance:        fixed(tx.Balance),
		CounterpartyID: tx.CounterpartyID,
		CreatedAt:      tx.CreatedAt,
	}
}

func MapTransactionsToRead(list []*account.Transaction) []*dto.TransactionRead {
	out := make([]*dto.TransactionRead, 0, len(list))
	for _, tx := range list {
		out = append(out, MapTransactionToRead(tx))
	}
	return out
}

func MapReceiptToRead(r *ledger.Receipt) *dto.ReceiptRead {
	return &dto.ReceiptRead{
		Balance:     fixed(r.Account.Balance),
		Currency:    string(r.Account.Currency),
		Transaction: MapTransactionToRead(r.Transaction),
	}
}

func MapTransferToRead(r *ledger.TransferReceipt) *dto.TransferRead {
	return &dto.TransferRead{
		FromBalance: fixed(r.From.Balance),
		ToBalance:   fixed(r.To.Balance),
		Currency:    string(r.From.Currency),
		Outgoing:    MapTransactionToRead(r.Debit),
		Incoming:    MapTransactionToRead(r.Credit),
	}
}

// MapUserToRead drops the password hash.
func MapUserToRead(u *user.User) *dto.UserRead {
	return &dto.UserRead{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func MapAlertsToRead(list []*alert.Alert) []*dto.AlertRead {
	out := make([]*dto.AlertRead, 0, len(list))
	for _, a := range list {
		out = append(out, &dto.AlertRead{
			ID:        a.ID,
			Message:   a.Message,
			Sent:      a.Sent,
			SentAt:    a.SentAt,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}
