package user_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/webapi/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	testutils.E2ETestSuite
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}

func (s *UserTestSuite) TestGetUser() {
	u := s.CreateTestUser()

	resp := s.MakeRequest(http.MethodGet, "/users/"+u.ID.String(), "", u.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	got := testutils.Decode[dto.UserRead](&s.E2ETestSuite, resp).Data
	s.Equal(u.Email, got.Email)
	s.Equal("Test User", got.Name)

	resp = s.MakeRequest(http.MethodGet, "/users/"+uuid.NewString(), "", u.Token)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/users/"+u.ID.String(), "", "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *UserTestSuite) TestAccountsAndTransactions() {
	u := s.CreateTestUser()
	first := s.CreateAccount(u, "")
	second := s.CreateAccount(u, `{"type":"current","currency":"USD"}`)
	s.Deposit(u, first.ID, "12.34")

	resp := s.MakeRequest(http.MethodGet, "/users/"+u.ID.String()+"/accounts", "", u.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	accounts := testutils.Decode[[]dto.AccountRead](&s.E2ETestSuite, resp).Data
	s.Require().Len(accounts, 2)
	s.ElementsMatch([]uuid.UUID{first.ID, second.ID}, []uuid.UUID{accounts[0].ID, accounts[1].ID})

	resp = s.MakeRequest(http.MethodGet, "/users/"+u.ID.String()+"/transactions?limit=5", "", u.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	txs := testutils.Decode[[]dto.TransactionRead](&s.E2ETestSuite, resp).Data
	s.Require().Len(txs, 1)
	s.Equal("12.34", txs[0].Amount)
}

func (s *UserTestSuite) TestDashboard() {
	u := s.CreateTestUser()
	inr := s.CreateAccount(u, "")
	usd := s.CreateAccount(u, `{"type":"current","currency":"USD"}`)
	s.Deposit(u, inr.ID, "90")
	s.DepositIn(u, usd.ID, "7.25", "USD")

	resp := s.MakeRequest(http.MethodGet, "/users/"+u.ID.String()+"/dashboard", "", u.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	board := testutils.Decode[dto.Dashboard](&s.E2ETestSuite, resp).Data
	s.Equal(2, board.AccountCount)
	s.Equal("97.25", board.TotalBalance.StringFixed(2))
	s.Equal("7.25", board.ByCurrency["USD"].StringFixed(2))
	s.Equal("90.00", board.ByType["savings"].StringFixed(2))
	s.Require().NotEmpty(board.ByKind)
}
