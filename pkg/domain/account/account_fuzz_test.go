package account_test

import (
	"math"
	"testing"

	domainaccount "github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuzzAccountOperations applies random deposit/withdraw sequences and checks
// that the balance stays non-negative and equal to the replayed entries.
func FuzzAccountOperations(f *testing.F) {
	f.Add(100.0, 40.0, 70.0)
	f.Add(0.004, 0.005, 0.006)
	f.Add(-50.0, 10.0, 1e9)
	f.Add(1e12, 1e12, 0.01)
	f.Fuzz(func(t *testing.T, deposit, withdraw1, withdraw2 float64) {
		if !finite(deposit, withdraw1, withdraw2) {
			t.Skip()
		}
		acc, err := domainaccount.New().WithUserID(uuid.New()).WithCurrency(money.USD).Build()
		if err != nil {
			t.Fatalf("build account: %v", err)
		}
		var entries []*domainaccount.Transaction

		if amt, err := domainaccount.ValidateAmount(decimal.NewFromFloat(deposit)); err == nil {
			tx, err := acc.Deposit(amt, money.USD)
			if err != nil {
				t.Fatalf("deposit of %s failed: %v", amt, err)
			}
			entries = append(entries, tx)
		}
		for _, w := range []float64{withdraw1, withdraw2} {
			amt, err := domainaccount.ValidateAmount(decimal.NewFromFloat(w))
			if err != nil {
				continue
			}
			before := acc.Balance
			tx, err := acc.Withdraw(amt)
			if err != nil {
				if !acc.Balance.Equal(before) {
					t.Errorf("failed withdraw changed balance from %s to %s", before, acc.Balance)
				}
				continue
			}
			entries = append(entries, tx)
		}

		if acc.Balance.IsNegative() {
			t.Errorf("balance is negative: %s", acc.Balance)
		}
		if replayed := domainaccount.Replay(entries); !replayed.Equal(acc.Balance) {
			t.Errorf("replayed %s != balance %s", replayed, acc.Balance)
		}
		if acc.Balance.Exponent() < -money.Scale {
			t.Errorf("balance %s has more than %d digits", acc.Balance, money.Scale)
		}
	})
}

// FuzzTransfer checks that transfers conserve the combined balance.
func FuzzTransfer(f *testing.F) {
	f.Add(100.0, 30.0)
	f.Add(10.0, 10.01)
	f.Add(0.0, -1.0)
	f.Fuzz(func(t *testing.T, initial, amount float64) {
		if !finite(initial, amount) {
			t.Skip()
		}
		opening, err := domainaccount.ValidateAmount(decimal.NewFromFloat(initial))
		if err != nil {
			opening = decimal.Zero
		}
		from, err := domainaccount.New().WithUserID(uuid.New()).WithBalance(opening).Build()
		if err != nil {
			t.Fatalf("build from: %v", err)
		}
		to, err := domainaccount.New().WithUserID(uuid.New()).Build()
		if err != nil {
			t.Fatalf("build to: %v", err)
		}
		total := from.Balance.Add(to.Balance)

		amt, err := domainaccount.ValidateAmount(decimal.NewFromFloat(amount))
		if err != nil {
			return
		}
		_, _, _ = domainaccount.Transfer(from, to, amt)

		if from.Balance.IsNegative() {
			t.Errorf("source balance is negative: %s", from.Balance)
		}
		if got := from.Balance.Add(to.Balance); !got.Equal(total) {
			t.Errorf("transfer changed total from %s to %s", total, got)
		}
	})
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
