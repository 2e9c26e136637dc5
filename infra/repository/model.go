package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Name      string    `gorm:"size:255"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	User      *User           `gorm:"constraint:OnDelete:RESTRICT"`
	Type      string          `gorm:"type:varchar(16);not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	Status    string          `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction represents a persisted ledger entry.
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_account_created,priority:1"`
	Account        *Account        `gorm:"constraint:OnDelete:RESTRICT"`
	Kind           string          `gorm:"type:varchar(16);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	Status         string          `gorm:"type:varchar(16);not null"`
	Balance        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CounterpartyID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"index:idx_transactions_account_created,priority:2"`
}

// Alert represents a notification waiting for, or past, delivery.
type Alert struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Recipient string    `gorm:"size:255;not null;index"`
	Message   string    `gorm:"type:text;not null"`
	Sent      bool      `gorm:"not null;index"`
	SentAt    *time.Time
	CreatedAt time.Time
}

// Models lists every table the ledger store owns, in creation order.
func Models() []any {
	return []any{&User{}, &Account{}, &Transaction{}, &Alert{}}
}
