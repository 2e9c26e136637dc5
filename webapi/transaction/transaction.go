package transaction

import (
	"github.com/amirasaad/bankapi/pkg/commands"
	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/mapper"
	"github.com/amirasaad/bankapi/pkg/middleware"
	accountsvc "github.com/amirasaad/bankapi/pkg/service/account"
	authsvc "github.com/amirasaad/bankapi/pkg/service/auth"
	"github.com/amirasaad/bankapi/pkg/service/ledger"
	"github.com/amirasaad/bankapi/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the money movement endpoints and the caller's history.
//
// Routes:
//   - POST /transactions/deposit   : Credit an active account.
//   - POST /transactions/withdraw  : Debit an active account.
//   - POST /transactions/transfer  : Move funds between two active accounts.
//   - GET  /transactions           : Entries of every account of the caller.
func Routes(
	app *fiber.App,
	ledgerSvc *ledger.Service,
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	g := app.Group("/transactions", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Post("/deposit", Deposit(ledgerSvc))
	g.Post("/withdraw", Withdraw(ledgerSvc))
	g.Post("/transfer", Transfer(ledgerSvc))
	g.Get("/", ListMine(accountSvc, authSvc))
}

// Deposit credits an account.
// @Summary Deposit funds into an account
// @Description Adds funds to an active account. Currency defaults to INR and must match the account.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body DepositRequest true "Deposit details"
// @Success 200 {object} common.Response "Deposit successful"
// @Failure 400 {object} common.ProblemDetails "Invalid amount or currency"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Account not active"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /transactions/deposit [post]
// @Security BearerAuth
func Deposit(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[DepositRequest](c)
		if input == nil {
			return err // error response already written
		}
		r, err := ledgerSvc.Deposit(c.UserContext(), commands.Deposit{
			AccountID: uuid.MustParse(input.AccountID),
			Amount:    input.Amount,
			Currency:  input.Currency,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to deposit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", mapper.MapReceiptToRead(r))
	}
}

// Withdraw debits an account.
// @Summary Withdraw funds from an account
// @Description Debits an active account in its own currency. The balance never goes below zero.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body WithdrawRequest true "Withdrawal details"
// @Success 200 {object} common.Response "Withdrawal successful"
// @Failure 400 {object} common.ProblemDetails "Invalid amount or insufficient funds"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Account not active"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /transactions/withdraw [post]
// @Security BearerAuth
func Withdraw(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err // error response already written
		}
		r, err := ledgerSvc.Withdraw(c.UserContext(), commands.Withdraw{
			AccountID: uuid.MustParse(input.AccountID),
			Amount:    input.Amount,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to withdraw", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal successful", mapper.MapReceiptToRead(r))
	}
}

// Transfer moves funds between accounts.
// @Summary Transfer funds between accounts
// @Description Both accounts must be active and share a currency. Owners receive alerts.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer details"
// @Success 200 {object} common.Response "Transfer successful"
// @Failure 400 {object} common.ProblemDetails "Invalid amount, same account, currency mismatch or insufficient funds"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Account not active"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /transactions/transfer [post]
// @Security BearerAuth
func Transfer(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err // error response already written
		}
		r, err := ledgerSvc.Transfer(c.UserContext(), commands.Transfer{
			FromAccountID: uuid.MustParse(input.FromAccountID),
			ToAccountID:   uuid.MustParse(input.ToAccountID),
			Amount:        input.Amount,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", mapper.MapTransferToRead(r))
	}
}

// ListMine lists the entries of every account of the caller.
// @Summary List my transactions
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /transactions [get]
// @Security BearerAuth
func ListMine(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		page, ok, err := common.ParsePage(c)
		if !ok {
			return err
		}
		txs, err := accountSvc.ListUserTransactions(c.UserContext(), userID, page)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", mapper.MapTransactionsToRead(txs))
	}
}
