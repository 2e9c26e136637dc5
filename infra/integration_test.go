package infra_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/bankapi/infra"
	"github.com/amirasaad/bankapi/infra/notify"
	infrarepo "github.com/amirasaad/bankapi/infra/repository"
	"github.com/amirasaad/bankapi/pkg/commands"
	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/service/account"
	"github.com/amirasaad/bankapi/pkg/service/alert"
	"github.com/amirasaad/bankapi/pkg/service/ledger"
	"github.com/amirasaad/bankapi/pkg/service/report"
	"github.com/amirasaad/bankapi/pkg/service/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// PostgresSuite runs the services against a real Postgres started with
// Testcontainers. It is skipped with -short or when Docker is unavailable.
type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB

	users    *user.Service
	accounts *account.Service
	ledger   *ledger.Service
	reports  *report.Service
	alerts   *alert.Service
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Postgres integration tests in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()
	var err error
	func() {
		// testcontainers panics when no Docker provider can be found
		defer func() {
			if r := recover(); r != nil {
				err = errors.New("docker unavailable")
			}
		}()
		s.container, err = tcpostgres.Run(
			ctx,
			"postgres:15-alpine",
			tcpostgres.WithDatabase("bank"),
			tcpostgres.WithUsername("test"),
			tcpostgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).WithStartupTimeout(60*time.Second),
			),
		)
	}()
	if err != nil {
		s.T().Skipf("postgres container unavailable: %v", err)
	}

	dsn, err := s.container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = infra.NewDBConnection(&config.DB{
		Url:             dsn,
		AutoMigrate:     true,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}, "test")
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uow := infrarepo.NewUoW(s.db)
	s.users = user.New(uow, logger)
	s.accounts = account.New(uow, logger)
	s.ledger = ledger.New(uow, logger)
	s.reports = report.New(uow, logger)
	s.alerts = alert.New(uow, notify.NewLogPublisher(logger), logger)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) newAccount(ctx context.Context, deposit string) uuid.UUID {
	u, err := s.users.CreateUser(ctx, uuid.NewString()[:8]+"@example.com", "password123", "")
	s.Require().NoError(err)
	a, err := s.accounts.CreateAccount(ctx, commands.CreateAccount{UserID: u.ID})
	s.Require().NoError(err)
	if deposit != "" {
		_, err = s.ledger.Deposit(ctx, commands.Deposit{AccountID: a.ID, Amount: decimal.RequireFromString(deposit)})
		s.Require().NoError(err)
	}
	return a.ID
}

func (s *PostgresSuite) balance(ctx context.Context, id uuid.UUID) string {
	b, err := s.accounts.GetBalance(ctx, id)
	s.Require().NoError(err)
	return b.Balance.StringFixed(2)
}

func (s *PostgresSuite) TestConcurrentWithdrawals() {
	ctx := context.Background()
	id := s.newAccount(ctx, "100")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.ledger.Withdraw(ctx, commands.Withdraw{AccountID: id, Amount: decimal.NewFromInt(60)})
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			s.ErrorIs(err, domain.ErrInsufficientFunds)
			failed++
		}
	}
	s.Equal(1, failed)
	s.Equal("40.00", s.balance(ctx, id))
}

func (s *PostgresSuite) TestOpposingTransfersConserveTotal() {
	ctx := context.Background()
	a := s.newAccount(ctx, "100")
	b := s.newAccount(ctx, "100")

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			from, to := a, b
			if i%2 == 1 {
				from, to = b, a
			}
			_, _ = s.ledger.Transfer(ctx, commands.Transfer{FromAccountID: from, ToAccountID: to, Amount: decimal.NewFromInt(7)})
		}()
	}
	wg.Wait()

	total := decimal.RequireFromString(s.balance(ctx, a)).Add(decimal.RequireFromString(s.balance(ctx, b)))
	s.Equal("200.00", total.StringFixed(2))

	for _, id := range []uuid.UUID{a, b} {
		rec, err := s.reports.Reconcile(ctx, id)
		s.Require().NoError(err)
		s.True(rec.Consistent, "account %s drifted", id)
	}
}

func (s *PostgresSuite) TestTransferWritesEntriesAndAlerts() {
	ctx := context.Background()
	from := s.newAccount(ctx, "50")
	to := s.newAccount(ctx, "")

	_, err := s.ledger.Transfer(ctx, commands.Transfer{FromAccountID: from, ToAccountID: to, Amount: decimal.RequireFromString("12.345")})
	s.Require().NoError(err)
	s.Equal("37.65", s.balance(ctx, from))
	s.Equal("12.35", s.balance(ctx, to))

	sent, err := s.alerts.DispatchPending(ctx, 100)
	s.Require().NoError(err)
	s.GreaterOrEqual(sent, 2)

	_, err = s.ledger.Transfer(ctx, commands.Transfer{FromAccountID: from, ToAccountID: to, Amount: decimal.NewFromInt(1000)})
	s.ErrorIs(err, domain.ErrInsufficientFunds)
	s.Equal("37.65", s.balance(ctx, from))
	s.Equal("12.35", s.balance(ctx, to))
}

func (s *PostgresSuite) TestDuplicateEmail() {
	ctx := context.Background()
	email := uuid.NewString()[:8] + "@example.com"
	_, err := s.users.CreateUser(ctx, email, "password123", "")
	s.Require().NoError(err)
	_, err = s.users.CreateUser(ctx, email, "password123", "")
	s.ErrorIs(err, domain.ErrAlreadyExists)
}
