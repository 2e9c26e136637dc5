package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, fiber.StatusBadRequest},
		{domain.ErrNotFound, fiber.StatusNotFound},
		{domain.NewError(domain.ErrInvalidAmount, "x"), fiber.StatusBadRequest},
		{domain.ErrInvalidCurrency, fiber.StatusBadRequest},
		{domain.ErrInvalidOperation, fiber.StatusBadRequest},
		{domain.ErrInsufficientFunds, fiber.StatusBadRequest},
		{domain.ErrValidation, fiber.StatusBadRequest},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{domain.ErrForbidden, fiber.StatusForbidden},
		{domain.ErrInvalidState, fiber.StatusConflict},
		{domain.ErrAlreadyExists, fiber.StatusConflict},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), fiber.StatusNotFound},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorToStatusCode(tt.err), "%v", tt.err)
	}
}

func serve(t *testing.T, h fiber.Handler, body string) (*http.Response, ProblemDetails) {
	t.Helper()
	app := fiber.New()
	app.Post("/test", h)
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var pd ProblemDetails
	_ = json.Unmarshal(raw, &pd)
	return resp, pd
}

func TestProblemDetailsJSON(t *testing.T) {
	resp, pd := serve(t, func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Failed", domain.NewError(domain.ErrNotFound, "account not found"))
	}, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Failed", pd.Title)
	assert.Equal(t, fiber.StatusNotFound, pd.Status)
	assert.Contains(t, pd.Detail, "account not found")
	assert.Equal(t, "/test", pd.Instance)

	resp, pd = serve(t, func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Teapot", nil, "custom detail", fiber.StatusTeapot)
	}, "")
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "custom detail", pd.Detail)
}

func TestProblemDetailsJSON_MasksInternalErrors(t *testing.T) {
	resp, pd := serve(t, func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Failed", errors.New("pq: password authentication failed"))
	}, "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", pd.Detail)
}

type sample struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=0"`
}

func TestBindAndValidate(t *testing.T) {
	var got *sample
	h := func(c *fiber.Ctx) error {
		in, err := BindAndValidate[sample](c)
		if in == nil {
			return err
		}
		got = in
		return c.SendStatus(fiber.StatusNoContent)
	}

	resp, _ := serve(t, h, `{"name":"ok","age":3}`)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, "ok", got.Name)

	resp, pd := serve(t, h, `{"age":-1}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", pd.Title)
	assert.ElementsMatch(t, []any{"Name: required", "Age: gte"}, pd.Errors)

	resp, pd = serve(t, h, `{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", pd.Title)
}
