// Package testutils wires the HTTP application against the in-memory store
// for handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/amirasaad/bankapi/internal/fixtures/memory"
	"github.com/amirasaad/bankapi/pkg/app"
	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const testPassword = "password123"

// E2ETestSuite runs requests against a fresh application and store per test.
type E2ETestSuite struct {
	suite.Suite
	Store *memory.Store
	App   *fiber.App
	Bank  *app.App
	Cfg   *config.App
}

// TestUser is a registered user together with its JWT.
type TestUser struct {
	ID       uuid.UUID
	Email    string
	Password string
	Token    string
}

// Envelope mirrors the success response with a typed payload.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// NewTestConfig returns a configuration usable without an environment.
func NewTestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text"},
		Auth: &config.Auth{Jwt: &config.Jwt{
			Secret: "test-secret-with-enough-length",
			Expiry: time.Hour,
		}},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Alerts: &config.Alerts{
			Publisher: config.PublisherLog,
			Interval:  time.Second,
			BatchSize: 10,
		},
	}
}

// SetupTest builds the application on an empty store.
func (s *E2ETestSuite) SetupTest() {
	if s.Cfg == nil {
		s.Cfg = NewTestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Store = memory.New()
	s.Bank = app.New(&app.Deps{
		Uow:    memory.NewUoW(s.Store),
		Logger: logger,
	}, s.Cfg)
	s.App = webapi.SetupApp(s.Bank)
}

// MakeRequest performs a request; body is sent as JSON when not empty.
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// MakeRequestWithHeaders performs a bodiless request with extra headers.
func (s *E2ETestSuite) MakeRequestWithHeaders(method, path string, headers map[string]string) *http.Response {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// Decode reads a success envelope into out and closes the body.
func Decode[T any](s *E2ETestSuite, resp *http.Response) Envelope[T] {
	defer resp.Body.Close() //nolint:errcheck
	var env Envelope[T]
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	return env
}

// DecodeProblem reads a problem details body and closes it.
func DecodeProblem(s *E2ETestSuite, resp *http.Response) map[string]any {
	defer resp.Body.Close() //nolint:errcheck
	var pd map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

// CreateTestUser registers a user with a random e-mail via /auth/signup.
func (s *E2ETestSuite) CreateTestUser() *TestUser {
	email := fmt.Sprintf("test_%s@example.com", uuid.NewString()[:8])
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, testPassword)
	resp := s.MakeRequest(http.MethodPost, "/auth/signup", body, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	env := Decode[struct {
		User  dto.UserRead `json:"user"`
		Token string       `json:"token"`
	}](s, resp)
	s.Require().NotEmpty(env.Data.Token)
	return &TestUser{
		ID:       env.Data.User.ID,
		Email:    email,
		Password: testPassword,
		Token:    env.Data.Token,
	}
}

// LoginUser logs in through /auth/login and returns the JWT.
func (s *E2ETestSuite) LoginUser(u *TestUser) string {
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, u.Email, u.Password)
	resp := s.MakeRequest(http.MethodPost, "/auth/login", body, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	env := Decode[map[string]string](s, resp)
	s.Require().NotEmpty(env.Data["token"])
	return env.Data["token"]
}

// CreateAccount opens an account for u; body may be empty.
func (s *E2ETestSuite) CreateAccount(u *TestUser, body string) dto.AccountRead {
	resp := s.MakeRequest(http.MethodPost, "/accounts", body, u.Token)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	return Decode[dto.AccountRead](s, resp).Data
}

// Deposit credits an account in the default currency and fails the test on
// any error.
func (s *E2ETestSuite) Deposit(u *TestUser, accountID uuid.UUID, amount string) dto.ReceiptRead {
	return s.DepositIn(u, accountID, amount, "")
}

// DepositIn credits an account in currency; an empty currency is omitted from
// the request.
func (s *E2ETestSuite) DepositIn(u *TestUser, accountID uuid.UUID, amount, currency string) dto.ReceiptRead {
	body := fmt.Sprintf(`{"account_id":%q,"amount":%q}`, accountID, amount)
	if currency != "" {
		body = fmt.Sprintf(`{"account_id":%q,"amount":%q,"currency":%q}`, accountID, amount, currency)
	}
	resp := s.MakeRequest(http.MethodPost, "/transactions/deposit", body, u.Token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return Decode[dto.ReceiptRead](s, resp).Data
}
