package dto

import (
	"time"

	"github.com/google/uuid"
)

// Read models are the API shapes of the domain records. Amounts are decimal
// strings with two fractional digits.

type AccountRead struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Balance   string    `json:"balance"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TransactionRead struct {
	ID             uuid.UUID  `json:"id"`
	AccountID      uuid.UUID  `json:"account_id"`
	Kind           string     `json:"kind"`
	Amount         string     `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	Balance        string     `json:"balance"`
	CounterpartyID *uuid.UUID `json:"counterparty_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReceiptRead is the outcome of a deposit or withdrawal.
type ReceiptRead struct {
	Balance     string           `json:"balance"`
	Currency    string           `json:"currency"`
	Transaction *TransactionRead `json:"transaction"`
}

// TransferRead is the outcome of a transfer.
type TransferRead struct {
	FromBalance string           `json:"from_balance"`
	ToBalance   string           `json:"to_balance"`
	Currency    string           `json:"currency"`
	Outgoing    *TransactionRead `json:"outgoing_transaction"`
	Incoming    *TransactionRead `json:"incoming_transaction"`
}

type UserRead struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AlertRead struct {
	ID        uuid.UUID  `json:"id"`
	Message   string     `json:"message"`
	Sent      bool       `json:"sent"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
