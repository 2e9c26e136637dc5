// Package common holds the response envelope, error mapping and request
// binding shared by the HTTP handlers.
package common

import (
	"errors"

	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

const problemJSON = "application/problem+json"

var validate = validator.New()

// SuccessResponseJSON writes data in the standard envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes an RFC 9457 response. The status comes from err
// unless an int is passed in opts; a string in opts overrides the detail,
// which otherwise is err's message. Anything else becomes Errors.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, opts ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   ErrorToStatusCode(err),
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Detail = err.Error()
	}
	for _, opt := range opts {
		switch v := opt.(type) {
		case int:
			pd.Status = v
		case string:
			pd.Detail = v
		default:
			pd.Errors = v
		}
	}
	if pd.Status >= fiber.StatusInternalServerError {
		// storage details stay in the log
		pd.Detail = "internal error"
	}
	return c.Status(pd.Status).JSON(pd, problemJSON)
}

// ErrorToStatusCode maps domain error kinds to HTTP status codes. A nil
// error maps to 400.
func ErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidOperation),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure the error response is already written and the returned pointer is nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+": "+fe.Tag())
			}
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fields, fiber.StatusBadRequest)
	}
	return &input, nil
}

// ParseUUIDParam reads a UUID path parameter, writing a 400 response when it
// is malformed.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false, ProblemDetailsJSON(c, "Invalid "+name, nil, name+" must be a valid UUID", fiber.StatusBadRequest)
	}
	return id, true, nil
}

// ParsePage reads limit and offset from the query string.
func ParsePage(c *fiber.Ctx) (dto.Page, bool, error) {
	var page dto.Page
	if err := c.QueryParser(&page); err != nil {
		return page, false, ProblemDetailsJSON(c, "Invalid query", nil, err.Error(), fiber.StatusBadRequest)
	}
	if page.Limit < 0 || page.Offset < 0 {
		return page, false, ProblemDetailsJSON(c, "Invalid query", nil, "limit and offset must not be negative", fiber.StatusBadRequest)
	}
	return page.Normalize(), true, nil
}

// UserIDResolver maps a verified token to a user id.
type UserIDResolver interface {
	GetCurrentUserID(token *jwt.Token) (uuid.UUID, error)
}

// CurrentUserID returns the id of the authenticated caller.
func CurrentUserID(c *fiber.Ctx, auth UserIDResolver) (uuid.UUID, bool, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, false, ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
	}
	userID, err := auth.GetCurrentUserID(token)
	if err != nil {
		return uuid.Nil, false, ProblemDetailsJSON(c, "Invalid user ID", err)
	}
	return userID, true, nil
}
