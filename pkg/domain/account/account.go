package account

import (
	"time"

	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = domain.NewError(domain.ErrNotFound, "account not found")

	// ErrTransactionAmountMustBePositive is returned when an amount is not positive after rounding.
	ErrTransactionAmountMustBePositive = domain.NewError(domain.ErrInvalidAmount, "transaction amount must be positive")

	// ErrUnsupportedCurrency is returned for currencies outside the supported set.
	ErrUnsupportedCurrency = domain.NewError(domain.ErrInvalidCurrency, "unsupported currency")

	// ErrCurrencyMismatch is returned when a currency differs from the account currency.
	ErrCurrencyMismatch = domain.NewError(domain.ErrInvalidCurrency, "currency mismatch")

	// ErrInsufficientFunds is returned when an account has insufficient funds for a withdrawal or transfer.
	ErrInsufficientFunds = domain.NewError(domain.ErrInsufficientFunds, "insufficient funds")

	// ErrCannotTransferToSameAccount is returned when a transfer is attempted from an account to itself.
	ErrCannotTransferToSameAccount = domain.NewError(domain.ErrInvalidOperation, "cannot transfer to same account")

	// ErrAccountNotActive is returned when a mutation targets a locked or closed account.
	ErrAccountNotActive = domain.NewError(domain.ErrInvalidState, "account is not active")

	// ErrAccountLocked is returned when the details of a locked account are requested.
	ErrAccountLocked = domain.NewError(domain.ErrForbidden, "account is locked")

	// ErrAccountNotLocked is returned when unlocking an account that is not locked.
	ErrAccountNotLocked = domain.NewError(domain.ErrInvalidState, "account is not locked")

	// ErrAccountClosed is returned when locking or closing an already closed account.
	ErrAccountClosed = domain.NewError(domain.ErrInvalidState, "account is closed")

	// ErrNonZeroBalance is returned when closing an account that still holds funds.
	ErrNonZeroBalance = domain.NewError(domain.ErrInvalidState, "account balance must be zero to close")

	// ErrInvalidAccountType is returned for account types other than savings and current.
	ErrInvalidAccountType = domain.NewError(domain.ErrValidation, "invalid account type")

	// ErrNilAccount is returned when a nil account is provided to a transfer.
	ErrNilAccount = domain.NewError(domain.ErrInvalidOperation, "nil account")
)

// Type is the kind of account a user opens.
type Type string

const (
	TypeSavings Type = "savings"
	TypeCurrent Type = "current"
)

// IsValid reports whether t is a known account type.
func (t Type) IsValid() bool {
	return t == TypeSavings || t == TypeCurrent
}

// Status gates which operations an account accepts.
type Status string

const (
	StatusActive Status = "active"
	StatusLocked Status = "locked"
	StatusClosed Status = "closed"
)

// Account is a user's balance in a single currency.
//
// Invariants:
//   - Balance is never negative and always carries two fractional digits.
//   - Balance equals the signed sum of the account's completed transactions.
//   - Only active accounts accept deposits, withdrawals and transfers.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Balance   decimal.Decimal
	Currency  money.Code
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	userID    uuid.UUID
	typ       Type
	balance   decimal.Decimal
	currency  money.Code
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// New creates a new Builder with a fresh id, the default currency and a zero
// active balance.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		id:        uuid.New(),
		typ:       TypeSavings,
		balance:   decimal.Zero,
		currency:  money.DefaultCode,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owner. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.typ = t
	return b
}

// WithCurrency sets the account currency. An empty code keeps the default.
func (b *Builder) WithCurrency(c money.Code) *Builder {
	if c != "" {
		b.currency = c
	}
	return b
}

// WithBalance sets the initial balance. Only for hydration and test setup.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithStatus sets the status. Only for hydration and test setup.
func (b *Builder) WithStatus(s Status) *Builder {
	b.status = s
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build validates the type, currency and owner and returns the account.
func (b *Builder) Build() (*Account, error) {
	if !b.typ.IsValid() {
		return nil, ErrInvalidAccountType
	}
	if err := ValidateCurrency(b.currency); err != nil {
		return nil, err
	}
	if b.userID == uuid.Nil {
		return nil, domain.NewError(domain.ErrValidation, "user id is required")
	}
	if b.balance.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	return &Account{
		ID:        b.id,
		UserID:    b.userID,
		Type:      b.typ,
		Balance:   money.Round(b.balance),
		Currency:  b.currency,
		Status:    b.status,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// ValidateAmount rounds amount to two digits and rejects anything not
// strictly positive afterwards.
func ValidateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := money.Round(amount)
	if !rounded.IsPositive() {
		return decimal.Zero, ErrTransactionAmountMustBePositive
	}
	return rounded, nil
}

// ValidateCurrency rejects codes outside the supported set.
func ValidateCurrency(c money.Code) error {
	if !c.IsValid() || !c.IsSupported() {
		return ErrUnsupportedCurrency
	}
	return nil
}

// Money returns the balance as a money value.
func (a *Account) Money() money.Money {
	m, err := money.New(a.Balance, a.Currency)
	if err != nil {
		return money.Zero(a.Currency)
	}
	return m
}

// EnsureActive returns ErrAccountNotActive unless the account accepts ledger mutations.
func (a *Account) EnsureActive() error {
	if a.Status != StatusActive {
		return ErrAccountNotActive
	}
	return nil
}

// EnsureReadable returns ErrAccountLocked when the account details are hidden.
func (a *Account) EnsureReadable() error {
	if a.Status == StatusLocked {
		return ErrAccountLocked
	}
	return nil
}

// Deposit credits amount. The amount must already be validated.
func (a *Account) Deposit(amount decimal.Decimal, currency money.Code) (*Transaction, error) {
	if err := a.EnsureActive(); err != nil {
		return nil, err
	}
	if currency != a.Currency {
		return nil, ErrCurrencyMismatch
	}
	a.credit(amount)
	return newTransaction(a, KindDeposit, amount, nil), nil
}

// Withdraw debits amount if the balance covers it.
func (a *Account) Withdraw(amount decimal.Decimal) (*Transaction, error) {
	if err := a.EnsureActive(); err != nil {
		return nil, err
	}
	if a.Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}
	a.debit(amount)
	return newTransaction(a, KindWithdrawal, amount, nil), nil
}

// Transfer moves amount from one account to another and returns the debit
// entry of from and the credit entry of to. Neither account changes on error.
func Transfer(from, to *Account, amount decimal.Decimal) (out, in *Transaction, err error) {
	if from == nil || to == nil {
		return nil, nil, ErrNilAccount
	}
	if from.ID == to.ID {
		return nil, nil, ErrCannotTransferToSameAccount
	}
	if err = from.EnsureActive(); err != nil {
		return nil, nil, err
	}
	if err = to.EnsureActive(); err != nil {
		return nil, nil, err
	}
	if from.Currency != to.Currency {
		return nil, nil, ErrCurrencyMismatch
	}
	if from.Balance.LessThan(amount) {
		return nil, nil, ErrInsufficientFunds
	}
	from.debit(amount)
	to.credit(amount)
	out = newTransaction(from, KindTransfer, amount, &to.ID)
	in = newTransaction(to, KindDeposit, amount, &from.ID)
	return out, in, nil
}

// Lock moves an active account to locked. Locking a locked account is a no-op.
// It reports whether the status changed.
func (a *Account) Lock() (bool, error) {
	switch a.Status {
	case StatusLocked:
		return false, nil
	case StatusClosed:
		return false, ErrAccountClosed
	}
	a.setStatus(StatusLocked)
	return true, nil
}

// Unlock moves a locked account back to active.
func (a *Account) Unlock() error {
	if a.Status != StatusLocked {
		return ErrAccountNotLocked
	}
	a.setStatus(StatusActive)
	return nil
}

// Close retires an account with a zero balance.
func (a *Account) Close() error {
	if a.Status == StatusClosed {
		return ErrAccountClosed
	}
	if !a.Balance.IsZero() {
		return ErrNonZeroBalance
	}
	a.setStatus(StatusClosed)
	return nil
}

func (a *Account) credit(amount decimal.Decimal) {
	a.Balance = money.Round(a.Balance.Add(amount))
	a.UpdatedAt = time.Now().UTC()
}

func (a *Account) debit(amount decimal.Decimal) {
	a.Balance = money.Round(a.Balance.Sub(amount))
	a.UpdatedAt = time.Now().UTC()
}

func (a *Account) setStatus(s Status) {
	a.Status = s
	a.UpdatedAt = time.Now().UTC()
}
