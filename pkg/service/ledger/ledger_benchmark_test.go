package ledger_test

import (
	"context"
	"testing"

	"github.com/amirasaad/bankapi/internal/fixtures/memory"
	"github.com/amirasaad/bankapi/pkg/commands"
	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/amirasaad/bankapi/pkg/service/ledger"
)

func newBenchAccounts(b *testing.B, balance string) (*ledger.Service, *account.Account, *account.Account) {
	b.Helper()
	store := memory.New()
	u, err := user.NewUser("bench@example.com", "password", "")
	if err != nil {
		b.Fatal(err)
	}
	store.PutUser(u)
	accts := make([]*account.Account, 2)
	for i := range accts {
		accts[i], err = account.New().
			WithUserID(u.ID).
			WithCurrency(money.DefaultCode).
			WithBalance(dec(balance)).
			Build()
		if err != nil {
			b.Fatal(err)
		}
		store.PutAccount(accts[i])
	}
	return ledger.New(memory.NewUoW(store), discard), accts[0], accts[1]
}

func BenchmarkDeposit(b *testing.B) {
	svc, acc, _ := newBenchAccounts(b, "0")
	cmd := commands.Deposit{AccountID: acc.ID, Amount: dec("1.25")}
	ctx := context.Background()
	b.ResetTimer()
	for b.Loop() {
		_, _ = svc.Deposit(ctx, cmd)
	}
}

func BenchmarkWithdraw(b *testing.B) {
	svc, acc, _ := newBenchAccounts(b, "9999999999999.99")
	cmd := commands.Withdraw{AccountID: acc.ID, Amount: dec("0.01")}
	ctx := context.Background()
	b.ResetTimer()
	for b.Loop() {
		_, _ = svc.Withdraw(ctx, cmd)
	}
}

func BenchmarkTransfer(b *testing.B) {
	svc, from, to := newBenchAccounts(b, "9999999999999.99")
	cmd := commands.Transfer{FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec("0.01")}
	ctx := context.Background()
	b.ResetTimer()
	for b.Loop() {
		_, _ = svc.Transfer(ctx, cmd)
	}
}
