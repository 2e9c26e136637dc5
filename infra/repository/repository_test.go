package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/domain/alert"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"id", "user_id", "type", "balance", "currency", "status", "created_at", "updated_at"}

func TestAccountRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	acc, err := account.New().WithUserID(uuid.New()).Build()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), acc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	acc, err := account.New().WithUserID(uuid.New()).Build()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	err = repo.Create(context.Background(), acc)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	id, userID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id, userID, "current", "120.50", "USD", "locked", now, now))

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, account.TypeCurrent, got.Type)
	assert.Equal(t, "120.50", got.Balance.StringFixed(2))
	assert.Equal(t, money.USD, got.Currency)
	assert.Equal(t, account.StatusLocked, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_GetForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id, uuid.New(), "savings", "10.00", "INR", "active", now, now))

	got, err := repo.GetForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET "balance"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateBalance(context.Background(), uuid.New(), decimal.RequireFromString("40.00")))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), uuid.New(), account.StatusLocked)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE user_id = \$1 ORDER BY created_at ASC`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(uuid.New(), userID, "savings", "1.00", "INR", "active", now, now).
			AddRow(uuid.New(), userID, "current", "2.00", "EUR", "closed", now, now))

	got, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, account.StatusClosed, got[1].Status)
}

var transactionColumns = []string{"id", "account_id", "kind", "amount", "currency", "status", "balance", "counterparty_id", "created_at"}

func TestTransactionRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	acc, err := account.New().WithUserID(uuid.New()).Build()
	require.NoError(t, err)
	tx, err := acc.Deposit(decimal.NewFromInt(100), money.INR)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), tx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	accountID, other := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE account_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(accountID, dto.MaxPageLimit, 5).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(uuid.New(), accountID, "transfer", "30.00", "INR", "completed", "70.00", other, now).
			AddRow(uuid.New(), accountID, "deposit", "100.00", "INR", "completed", "100.00", nil, now))

	got, err := repo.ListByAccount(context.Background(), accountID, dto.Page{Limit: 1000, Offset: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, account.KindTransfer, got[0].Kind)
	require.NotNil(t, got[0].CounterpartyID)
	assert.Equal(t, other, *got[0].CounterpartyID)
	assert.Nil(t, got[1].CounterpartyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_ListByUserJoinsAccounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT transactions.\* FROM "transactions" JOIN accounts ON accounts.id = transactions.account_id WHERE accounts.user_id = \$1 ORDER BY transactions.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	got, err := repo.ListByUser(context.Background(), userID, dto.Page{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_SummarizeByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectQuery(`SELECT transactions.kind AS kind, COUNT\(\*\) AS count, COALESCE\(SUM\(transactions.amount\), 0\) AS sum FROM "transactions" JOIN accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "count", "sum"}).
			AddRow("deposit", 2, "130.00").
			AddRow("withdrawal", 1, "10.5"))

	got, err := repo.SummarizeByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Count)
	assert.Equal(t, "10.50", got[1].Sum.StringFixed(2))
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	u, err := user.NewUser("test@example.com", "password", "Test")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Create(context.Background(), u))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()
	err = repo.Create(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("a@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password", "created_at", "updated_at"}).
			AddRow(id, "a@example.com", "A", "hash", now, now))

	got, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAlertRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)
	a := alert.New("a@example.com", "hello")
	now := time.Now()
	columns := []string{"id", "recipient", "message", "sent", "sent_at", "created_at"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "alerts"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Create(context.Background(), a))

	mock.ExpectQuery(`SELECT \* FROM "alerts" WHERE sent = \$1 ORDER BY created_at ASC LIMIT \$2 FOR UPDATE SKIP LOCKED`).
		WithArgs(false, 10).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(a.ID, a.Recipient, a.Message, false, nil, now))
	pending, err := repo.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "alerts" SET "sent"=\$1,"sent_at"=\$2 WHERE id IN \(\$3\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.MarkSent(context.Background(), []uuid.UUID{a.ID}))

	// nothing to mark issues no statement
	require.NoError(t, repo.MarkSent(context.Background(), nil))

	mock.ExpectQuery(`SELECT \* FROM "alerts" WHERE recipient = \$1 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(a.ID, a.Recipient, a.Message, true, now, now))
	list, err := repo.ListByRecipient(context.Background(), a.Recipient, dto.Page{Limit: 5})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Sent)
	assert.NotNil(t, list[0].SentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
