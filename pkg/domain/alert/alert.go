// Package alert holds notifications recorded when money moves between accounts.
package alert

import (
	"fmt"
	"time"

	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Alert is a message addressed to an account owner. Alerts are written in
// the ledger transaction and delivered later.
type Alert struct {
	ID        uuid.UUID
	Recipient string
	Message   string
	Sent      bool
	SentAt    *time.Time
	CreatedAt time.Time
}

// New creates an unsent alert.
func New(recipient, message string) *Alert {
	return &Alert{
		ID:        uuid.New(),
		Recipient: recipient,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Debit builds the notice for the owner of the source account of a transfer.
func Debit(recipient string, amount decimal.Decimal, currency money.Code, to uuid.UUID) *Alert {
	return New(recipient, fmt.Sprintf("%s %s debited and transferred to account %s",
		amount.StringFixed(money.Scale), currency, to))
}

// Credit builds the notice for the owner of the destination account of a transfer.
func Credit(recipient string, amount decimal.Decimal, currency money.Code, from uuid.UUID) *Alert {
	return New(recipient, fmt.Sprintf("%s %s credited from account %s",
		amount.StringFixed(money.Scale), currency, from))
}

// MarkSent flags the alert as delivered.
func (a *Alert) MarkSent(at time.Time) {
	a.Sent = true
	a.SentAt = &at
}
