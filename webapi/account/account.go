package account

import (
	"context"

	"github.com/amirasaad/bankapi/pkg/commands"
	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/domain/account"
	"github.com/amirasaad/bankapi/pkg/mapper"
	"github.com/amirasaad/bankapi/pkg/middleware"
	accountsvc "github.com/amirasaad/bankapi/pkg/service/account"
	authsvc "github.com/amirasaad/bankapi/pkg/service/auth"
	reportsvc "github.com/amirasaad/bankapi/pkg/service/report"
	"github.com/amirasaad/bankapi/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the account lifecycle endpoints. All routes require a
// valid JWT.
//
// Routes:
//   - POST /accounts                   : Open an account for the authenticated user.
//   - GET  /accounts/:id               : Account details; 403 while locked.
//   - GET  /accounts/:id/balance       : Balance and currency, whatever the status.
//   - POST /accounts/:id/lock          : Lock an active account.
//   - POST /accounts/:id/unlock        : Unlock a locked account.
//   - POST /accounts/:id/close         : Close an account with a zero balance.
//   - GET  /accounts/:id/transactions  : Ledger entries, newest first.
//   - GET  /accounts/:id/reconcile     : Replay the ledger against the stored balance.
func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	reportSvc *reportsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	g := app.Group("/accounts", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Post("/", CreateAccount(accountSvc, authSvc))
	g.Get("/:id", GetAccount(accountSvc))
	g.Get("/:id/balance", GetBalance(accountSvc))
	g.Post("/:id/lock", LockAccount(accountSvc))
	g.Post("/:id/unlock", UnlockAccount(accountSvc))
	g.Post("/:id/close", CloseAccount(accountSvc))
	g.Get("/:id/transactions", GetTransactions(accountSvc))
	g.Get("/:id/reconcile", Reconcile(reportSvc))
}

// CreateAccount opens a zero balance account for the current user.
// @Summary Create a new account
// @Description Opens an active account with a zero balance. Type defaults to savings and currency to INR.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest false "Account options"
// @Success 201 {object} common.Response "Account created successfully"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "User not found"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [post]
// @Security BearerAuth
func CreateAccount(
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		input := &CreateAccountRequest{}
		if len(c.Body()) > 0 {
			if input, err = common.BindAndValidate[CreateAccountRequest](c); input == nil {
				return err // error response already written
			}
		}
		a, err := accountSvc.CreateAccount(c.UserContext(), commands.CreateAccount{
			UserID:   userID,
			Type:     input.Type,
			Currency: input.Currency,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", mapper.MapAccountToRead(a))
	}
}

// GetAccount returns the account details.
// @Summary Get account details
// @Description Returns the account. Locked accounts answer 403.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [get]
// @Security BearerAuth
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		a, err := accountSvc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", mapper.MapAccountToRead(a))
	}
}

// GetBalance returns the balance of an account.
// @Summary Get account balance
// @Description Returns balance and currency. Not gated by account status.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/balance [get]
// @Security BearerAuth
func GetBalance(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		b, err := accountSvc.GetBalance(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", fiber.Map{
			"account_id": b.AccountID,
			"balance":    b.Balance.StringFixed(2),
			"currency":   b.Currency,
		})
	}
}

// LockAccount locks an active account. Locking a locked account succeeds unchanged.
// @Summary Lock an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Account is closed"
// @Router /accounts/{id}/lock [post]
// @Security BearerAuth
func LockAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return transition("lock", accountSvc.LockAccount)
}

// UnlockAccount unlocks a locked account.
// @Summary Unlock an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Account is not locked"
// @Router /accounts/{id}/unlock [post]
// @Security BearerAuth
func UnlockAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return transition("unlock", accountSvc.UnlockAccount)
}

// CloseAccount closes an account whose balance is zero.
// @Summary Close an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Balance is not zero or account already closed"
// @Router /accounts/{id}/close [post]
// @Security BearerAuth
func CloseAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return transition("close", accountSvc.CloseAccount)
}

func transition(
	op string,
	apply func(ctx context.Context, id uuid.UUID) (*account.Account, error),
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		a, err := apply(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to "+op+" account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account status is "+string(a.Status), mapper.MapAccountToRead(a))
	}
}

// GetTransactions lists the entries of an account.
// @Summary List account transactions
// @Description Newest first. limit defaults to 20 and is capped at 100.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/transactions [get]
// @Security BearerAuth
func GetTransactions(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		page, ok, err := common.ParsePage(c)
		if !ok {
			return err
		}
		txs, err := accountSvc.ListTransactions(c.UserContext(), id, page)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", mapper.MapTransactionsToRead(txs))
	}
}

// Reconcile compares the stored balance with the replayed ledger.
// @Summary Reconcile an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/reconcile [get]
// @Security BearerAuth
func Reconcile(reportSvc *reportsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		rec, err := reportSvc.Reconcile(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reconcile account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Reconciled", rec)
	}
}
