package money

// Code represents a currency code (e.g., "INR", "USD").
type Code string

// Supported currency codes
const (
	INR Code = "INR" // Indian Rupee
	USD Code = "USD" // US Dollar
	EUR Code = "EUR" // Euro
)

// DefaultCode is used when a caller does not name a currency.
const DefaultCode = INR

var supported = map[Code]struct{}{
	INR: {},
	USD: {},
	EUR: {},
}

// Supported returns the currency codes accounts and deposits may use.
func Supported() []Code {
	return []Code{INR, USD, EUR}
}

// IsValid reports whether the code is three uppercase ASCII letters.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'Z' &&
		c[1] >= 'A' && c[1] <= 'Z' &&
		c[2] >= 'A' && c[2] <= 'Z'
}

// IsSupported reports whether the code belongs to the supported set.
func (c Code) IsSupported() bool {
	_, ok := supported[c]
	return ok
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}
