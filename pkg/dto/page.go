package dto

// MaxPageLimit caps the number of rows a listing returns.
const MaxPageLimit = 100

// DefaultPageLimit is used when a caller does not set a limit.
const DefaultPageLimit = 20

// Page selects a window of a newest-first listing.
type Page struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize clamps the limit to [1, MaxPageLimit] and the offset to >= 0.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
