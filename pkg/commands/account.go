package commands

import "github.com/google/uuid"

// CreateAccount opens an account for a user. Empty Type and Currency take
// the defaults.
type CreateAccount struct {
	UserID   uuid.UUID
	Type     string
	Currency string
}
