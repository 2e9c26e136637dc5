package user

import (
	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/mapper"
	"github.com/amirasaad/bankapi/pkg/middleware"
	accountsvc "github.com/amirasaad/bankapi/pkg/service/account"
	reportsvc "github.com/amirasaad/bankapi/pkg/service/report"
	usersvc "github.com/amirasaad/bankapi/pkg/service/user"
	"github.com/amirasaad/bankapi/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the per-user read endpoints.
func Routes(
	app *fiber.App,
	userSvc *usersvc.Service,
	accountSvc *accountsvc.Service,
	reportSvc *reportsvc.Service,
	cfg *config.App,
) {
	g := app.Group("/users", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Get("/:id", GetUser(userSvc))
	g.Get("/:id/accounts", ListAccounts(accountSvc))
	g.Get("/:id/transactions", ListTransactions(accountSvc))
	g.Get("/:id/dashboard", Dashboard(reportSvc))
}

// GetUser returns a user.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id} [get]
// @Security BearerAuth
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		u, err := userSvc.GetUser(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User fetched", mapper.MapUserToRead(u))
	}
}

// ListAccounts lists a user's accounts, oldest first.
// @Summary List user accounts
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id}/accounts [get]
// @Security BearerAuth
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		list, err := accountSvc.ListAccounts(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", mapper.MapAccountsToRead(list))
	}
}

// ListTransactions lists the entries of all of a user's accounts.
// @Summary List user transactions
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id}/transactions [get]
// @Security BearerAuth
func ListTransactions(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		page, ok, err := common.ParsePage(c)
		if !ok {
			return err
		}
		txs, err := accountSvc.ListUserTransactions(c.UserContext(), id, page)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", mapper.MapTransactionsToRead(txs))
	}
}

// Dashboard aggregates a user's balances and entries.
// @Summary User dashboard
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id}/dashboard [get]
// @Security BearerAuth
func Dashboard(reportSvc *reportsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseUUIDParam(c, "id")
		if !ok {
			return err
		}
		board, err := reportSvc.GetUsersDashboard(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to build dashboard", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Dashboard", board)
	}
}
