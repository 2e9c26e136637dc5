package alert

import (
	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/mapper"
	"github.com/amirasaad/bankapi/pkg/middleware"
	alertsvc "github.com/amirasaad/bankapi/pkg/service/alert"
	authsvc "github.com/amirasaad/bankapi/pkg/service/auth"
	"github.com/amirasaad/bankapi/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, alertSvc *alertsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Get("/alerts", middleware.JwtProtected(cfg.Auth.Jwt), ListAlerts(alertSvc, authSvc))
}

// ListAlerts returns the caller's transfer alerts, newest first.
// @Summary List my alerts
// @Tags alerts
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /alerts [get]
// @Security BearerAuth
func ListAlerts(alertSvc *alertsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		page, ok, err := common.ParsePage(c)
		if !ok {
			return err
		}
		alerts, err := alertSvc.ListAlerts(c.UserContext(), userID, page)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list alerts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Alerts fetched", mapper.MapAlertsToRead(alerts))
	}
}
