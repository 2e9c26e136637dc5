package money_test

import (
	"encoding/json"
	"testing"

	"github.com/amirasaad/bankapi/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, amount string, currency money.Code) money.Money {
	t.Helper()
	m, err := money.New(decimal.RequireFromString(amount), currency)
	require.NoError(t, err, "failed to create money for test")
	return m
}

func TestNew_Precision(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency money.Code
		expected string
		wantErr  bool
	}{
		{"INR with paise", "100.50", money.INR, "100.50 INR", false},
		{"EUR with cents", "99.99", money.EUR, "99.99 EUR", false},
		{"rounds half away from zero", "100.005", money.USD, "100.01 USD", false},
		{"rounds down", "100.004", money.USD, "100.00 USD", false},
		{"whole number", "7", money.INR, "7.00 INR", false},
		{"unsupported currency", "1", money.Code("GBP"), "", true},
		{"malformed currency", "1", money.Code("inr"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := money.New(decimal.RequireFromString(tt.amount), tt.currency)
			if tt.wantErr {
				require.ErrorIs(t, err, money.ErrInvalidCurrency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.String())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	inr100 := mustNew(t, "100", money.INR)
	inr30 := mustNew(t, "30.10", money.INR)
	usd1 := mustNew(t, "1", money.USD)

	t.Run("add", func(t *testing.T) {
		got, err := inr100.Add(inr30)
		require.NoError(t, err)
		assert.Equal(t, "130.10 INR", got.String())
	})

	t.Run("subtract", func(t *testing.T) {
		got, err := inr100.Subtract(inr30)
		require.NoError(t, err)
		assert.Equal(t, "69.90 INR", got.String())
	})

	t.Run("subtract below zero", func(t *testing.T) {
		got, err := inr30.Subtract(inr100)
		require.NoError(t, err)
		assert.True(t, got.IsNegative())
	})

	t.Run("mismatched currencies", func(t *testing.T) {
		_, err := inr100.Add(usd1)
		require.ErrorIs(t, err, money.ErrMismatchedCurrencies)
		_, err = inr100.Subtract(usd1)
		require.ErrorIs(t, err, money.ErrMismatchedCurrencies)
		_, err = inr100.LessThan(usd1)
		require.ErrorIs(t, err, money.ErrMismatchedCurrencies)
	})

	t.Run("less than", func(t *testing.T) {
		lt, err := inr30.LessThan(inr100)
		require.NoError(t, err)
		assert.True(t, lt)
	})
}

func TestMoney_RoundTripIsExact(t *testing.T) {
	// 0.1 + 0.2 - 0.3 is not zero in binary floating point.
	sum := money.Zero(money.INR)
	for _, s := range []string{"0.10", "0.20"} {
		var err error
		sum, err = sum.Add(mustNew(t, s, money.INR))
		require.NoError(t, err)
	}
	got, err := sum.Subtract(mustNew(t, "0.30", money.INR))
	require.NoError(t, err)
	assert.True(t, got.Amount().IsZero())
	assert.Equal(t, "0.00 INR", got.String())
}

func TestParse(t *testing.T) {
	d, err := money.Parse("10.129")
	require.NoError(t, err)
	assert.Equal(t, "10.13", d.StringFixed(money.Scale))

	_, err = money.Parse("ten")
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestCode(t *testing.T) {
	assert.True(t, money.INR.IsSupported())
	assert.False(t, money.Code("JPY").IsSupported())
	assert.True(t, money.Code("JPY").IsValid())
	assert.False(t, money.Code("US").IsValid())
	assert.ElementsMatch(t, []money.Code{money.INR, money.USD, money.EUR}, money.Supported())
}

func TestMoney_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(mustNew(t, "5", money.EUR))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"5.00","currency":"EUR"}`, string(b))
}
