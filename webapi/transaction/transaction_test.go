package transaction_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/webapi/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type TransactionTestSuite struct {
	testutils.E2ETestSuite
	user *testutils.TestUser
	acct dto.AccountRead
}

func TestTransactionTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}

func (s *TransactionTestSuite) SetupTest() {
	s.E2ETestSuite.SetupTest()
	s.user = s.CreateTestUser()
	s.acct = s.CreateAccount(s.user, "")
}

func (s *TransactionTestSuite) TestDeposit() {
	r := s.Deposit(s.user, s.acct.ID, "100.005")
	s.Equal("100.01", r.Balance)
	s.Equal("INR", r.Currency)
	s.Require().NotNil(r.Transaction)
	s.Equal("deposit", r.Transaction.Kind)
	s.Equal("100.01", r.Transaction.Amount)

	// JSON numbers are accepted too
	resp := s.MakeRequest(http.MethodPost, "/transactions/deposit",
		fmt.Sprintf(`{"account_id":%q,"amount":0.99}`, s.acct.ID), s.user.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("101.00", testutils.Decode[dto.ReceiptRead](&s.E2ETestSuite, resp).Data.Balance)
}

func (s *TransactionTestSuite) TestDeposit_Errors() {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"zero", fmt.Sprintf(`{"account_id":%q,"amount":"0"}`, s.acct.ID), http.StatusBadRequest},
		{"negative", fmt.Sprintf(`{"account_id":%q,"amount":"-5"}`, s.acct.ID), http.StatusBadRequest},
		{"rounds to zero", fmt.Sprintf(`{"account_id":%q,"amount":"0.004"}`, s.acct.ID), http.StatusBadRequest},
		{"missing amount", fmt.Sprintf(`{"account_id":%q}`, s.acct.ID), http.StatusBadRequest},
		{"wrong currency", fmt.Sprintf(`{"account_id":%q,"amount":"5","currency":"USD"}`, s.acct.ID), http.StatusBadRequest},
		{"bad account id", `{"account_id":"nope","amount":"5"}`, http.StatusBadRequest},
		{"unknown account", fmt.Sprintf(`{"account_id":%q,"amount":"5"}`, uuid.New()), http.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp := s.MakeRequest(http.MethodPost, "/transactions/deposit", tt.body, s.user.Token)
			s.Equal(tt.want, resp.StatusCode)
		})
	}
	s.True(s.Store.Balance(s.acct.ID).IsZero())
}

func (s *TransactionTestSuite) TestWithdraw() {
	s.Deposit(s.user, s.acct.ID, "50")

	resp := s.MakeRequest(http.MethodPost, "/transactions/withdraw",
		fmt.Sprintf(`{"account_id":%q,"amount":"20.50"}`, s.acct.ID), s.user.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	r := testutils.Decode[dto.ReceiptRead](&s.E2ETestSuite, resp).Data
	s.Equal("29.50", r.Balance)
	s.Equal("withdrawal", r.Transaction.Kind)

	resp = s.MakeRequest(http.MethodPost, "/transactions/withdraw",
		fmt.Sprintf(`{"account_id":%q,"amount":"29.51"}`, s.acct.ID), s.user.Token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	pd := testutils.DecodeProblem(&s.E2ETestSuite, resp)
	s.Contains(pd["detail"], "insufficient funds")
	s.Equal("29.50", s.Store.Balance(s.acct.ID).StringFixed(2))
}

func (s *TransactionTestSuite) TestConcurrentWithdrawals() {
	s.Deposit(s.user, s.acct.ID, "100")

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.MakeRequest(http.MethodPost, "/transactions/withdraw",
				fmt.Sprintf(`{"account_id":%q,"amount":"60"}`, s.acct.ID), s.user.Token)
			codes[i] = resp.StatusCode
			_ = resp.Body.Close()
		}()
	}
	wg.Wait()

	s.ElementsMatch([]int{http.StatusOK, http.StatusBadRequest}, codes)
	s.Equal("40.00", s.Store.Balance(s.acct.ID).StringFixed(2))
}

func (s *TransactionTestSuite) TestTransfer() {
	other := s.CreateTestUser()
	to := s.CreateAccount(other, "")
	s.Deposit(s.user, s.acct.ID, "100")

	resp := s.MakeRequest(http.MethodPost, "/transactions/transfer",
		fmt.Sprintf(`{"from_account_id":%q,"to_account_id":%q,"amount":"30"}`, s.acct.ID, to.ID), s.user.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	r := testutils.Decode[dto.TransferRead](&s.E2ETestSuite, resp).Data
	s.Equal("70.00", r.FromBalance)
	s.Equal("30.00", r.ToBalance)
	s.Equal("transfer", r.Outgoing.Kind)
	s.Equal("deposit", r.Incoming.Kind)

	// both owners are alerted
	resp = s.MakeRequest(http.MethodGet, "/alerts", "", other.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	alerts := testutils.Decode[[]dto.AlertRead](&s.E2ETestSuite, resp).Data
	s.Require().Len(alerts, 1)
	s.False(alerts[0].Sent)
	s.Len(s.Store.Alerts(), 2)
}

func (s *TransactionTestSuite) TestTransfer_Errors() {
	usd := s.CreateAccount(s.user, `{"currency":"USD"}`)
	s.Deposit(s.user, s.acct.ID, "10")

	tests := []struct {
		name string
		to   uuid.UUID
		amt  string
		want int
	}{
		{"same account", s.acct.ID, "1", http.StatusBadRequest},
		{"currency mismatch", usd.ID, "1", http.StatusBadRequest},
		{"insufficient funds", usd.ID, "11", http.StatusBadRequest},
		{"unknown destination", uuid.New(), "1", http.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp := s.MakeRequest(http.MethodPost, "/transactions/transfer",
				fmt.Sprintf(`{"from_account_id":%q,"to_account_id":%q,"amount":%q}`, s.acct.ID, tt.to, tt.amt), s.user.Token)
			s.Equal(tt.want, resp.StatusCode)
		})
	}
	s.Equal("10.00", s.Store.Balance(s.acct.ID).StringFixed(2))
	s.Empty(s.Store.Alerts())
}

func (s *TransactionTestSuite) TestListMine() {
	second := s.CreateAccount(s.user, `{"type":"current"}`)
	s.Deposit(s.user, s.acct.ID, "1")
	s.Deposit(s.user, second.ID, "2")

	resp := s.MakeRequest(http.MethodGet, "/transactions", "", s.user.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	txs := testutils.Decode[[]dto.TransactionRead](&s.E2ETestSuite, resp).Data
	s.Require().Len(txs, 2)
	s.Equal(second.ID, txs[0].AccountID)

	resp = s.MakeRequest(http.MethodGet, "/transactions", "", "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
