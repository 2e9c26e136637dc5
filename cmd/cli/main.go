package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amirasaad/bankapi/infra/initializer"
	"github.com/amirasaad/bankapi/pkg/app"
	"github.com/amirasaad/bankapi/pkg/commands"
	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/domain/user"
	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

var (
	success = color.New(color.FgGreen).SprintfFunc()
	failure = color.New(color.FgRed, color.Bold).SprintfFunc()
	label   = color.New(color.FgCyan).SprintFunc()

	stdin = bufio.NewReader(os.Stdin)
)

const usage = `Usage: cli <command> [arguments]

Commands:
  signup <email> [name]
  login
  create-account [savings|current] [currency]
  deposit <account_id> <amount> [currency]
  withdraw <account_id> <amount>
  transfer <from_account_id> <to_account_id> <amount>
  balance <account_id>
  lock <account_id>
  unlock <account_id>
  close <account_id>
  dashboard

Every command except signup asks for the e-mail and password of the user.`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	if err := run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, failure("Error: %v", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) (err error) {
	cfg, err := config.Load(config.EnvFiles()...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	a := app.New(deps, cfg)

	if cmd == "signup" {
		return signup(ctx, a, args)
	}

	u, err := login(ctx, a)
	if err != nil {
		return err
	}

	switch cmd {
	case "login":
		token, err := a.AuthService.GenerateToken(ctx, u)
		if err != nil {
			return err
		}
		fmt.Println(success("Logged in as %s", u.Email))
		if token != "" {
			fmt.Println(label("Token:"), token)
		}
	case "create-account", "create":
		c := commands.CreateAccount{UserID: u.ID}
		if len(args) > 0 {
			c.Type = args[0]
		}
		if len(args) > 1 {
			c.Currency = strings.ToUpper(args[1])
		}
		acct, err := a.AccountService.CreateAccount(ctx, c)
		if err != nil {
			return err
		}
		fmt.Println(success("Account created: %s (%s, %s)", acct.ID, acct.Type, acct.Currency))
	case "deposit":
		if len(args) < 2 {
			return errors.New("usage: deposit <account_id> <amount> [currency]")
		}
		id, amount, err := accountAndAmount(args[0], args[1])
		if err != nil {
			return err
		}
		c := commands.Deposit{AccountID: id, Amount: amount}
		if len(args) > 2 {
			c.Currency = strings.ToUpper(args[2])
		}
		r, err := a.LedgerService.Deposit(ctx, c)
		if err != nil {
			return err
		}
		fmt.Println(success("Deposited %s to %s. New balance: %s %s",
			r.Transaction.Amount.StringFixed(money.Scale), id,
			r.Account.Balance.StringFixed(money.Scale), r.Account.Currency))
	case "withdraw":
		if len(args) < 2 {
			return errors.New("usage: withdraw <account_id> <amount>")
		}
		id, amount, err := accountAndAmount(args[0], args[1])
		if err != nil {
			return err
		}
		r, err := a.LedgerService.Withdraw(ctx, commands.Withdraw{AccountID: id, Amount: amount})
		if err != nil {
			return err
		}
		fmt.Println(success("Withdrew %s from %s. New balance: %s %s",
			r.Transaction.Amount.StringFixed(money.Scale), id,
			r.Account.Balance.StringFixed(money.Scale), r.Account.Currency))
	case "transfer":
		if len(args) < 3 {
			return errors.New("usage: transfer <from_account_id> <to_account_id> <amount>")
		}
		from, amount, err := accountAndAmount(args[0], args[2])
		if err != nil {
			return err
		}
		to, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid account id %q", args[1])
		}
		r, err := a.LedgerService.Transfer(ctx, commands.Transfer{FromAccountID: from, ToAccountID: to, Amount: amount})
		if err != nil {
			return err
		}
		fmt.Println(success("Transferred %s %s", amount.StringFixed(money.Scale), r.From.Currency))
		fmt.Println(label("from:"), r.From.ID, r.From.Balance.StringFixed(money.Scale))
		fmt.Println(label("to:  "), r.To.ID, r.To.Balance.StringFixed(money.Scale))
	case "balance":
		id, err := accountArg(args)
		if err != nil {
			return err
		}
		b, err := a.AccountService.GetBalance(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(label("Balance:"), b.Balance.StringFixed(money.Scale), b.Currency)
	case "lock", "unlock", "close":
		id, err := accountArg(args)
		if err != nil {
			return err
		}
		transition := map[string]func(context.Context, uuid.UUID) error{
			"lock":   func(ctx context.Context, id uuid.UUID) error { _, err := a.AccountService.LockAccount(ctx, id); return err },
			"unlock": func(ctx context.Context, id uuid.UUID) error { _, err := a.AccountService.UnlockAccount(ctx, id); return err },
			"close":  func(ctx context.Context, id uuid.UUID) error { _, err := a.AccountService.CloseAccount(ctx, id); return err },
		}[cmd]
		if err := transition(ctx, id); err != nil {
			return err
		}
		fmt.Println(success("Account %s: %s done", id, cmd))
	case "dashboard":
		d, err := a.ReportService.GetUsersDashboard(ctx, u.ID)
		if err != nil {
			return err
		}
		fmt.Println(label("Accounts:"), d.AccountCount)
		fmt.Println(label("Total:   "), d.TotalBalance.StringFixed(money.Scale))
		for code, sum := range d.ByCurrency {
			fmt.Printf("  %s %s\n", label(code), sum.StringFixed(money.Scale))
		}
		for _, k := range d.ByKind {
			fmt.Printf("  %s x%d %s\n", label(k.Kind), k.Count, k.Sum.StringFixed(money.Scale))
		}
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func signup(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: signup <email> [name]")
	}
	name := ""
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	u, err := a.UserService.CreateUser(ctx, args[0], password, name)
	if err != nil {
		return err
	}
	fmt.Println(success("User created: %s", u.ID))
	return nil
}

func login(ctx context.Context, a *app.App) (*user.User, error) {
	fmt.Print("Email: ")
	email, err := stdin.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read email: %w", err)
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return nil, err
	}
	return a.AuthService.Login(ctx, strings.TrimSpace(email), password)
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		line, err := stdin.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func accountArg(args []string) (uuid.UUID, error) {
	if len(args) < 1 {
		return uuid.Nil, errors.New("account id is required")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account id %q", args[0])
	}
	return id, nil
}

func accountAndAmount(rawID, rawAmount string) (uuid.UUID, decimal.Decimal, error) {
	id, err := accountArg([]string{rawID})
	if err != nil {
		return uuid.Nil, decimal.Zero, err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return uuid.Nil, decimal.Zero, fmt.Errorf("invalid amount %q", rawAmount)
	}
	return id, amount, nil
}
