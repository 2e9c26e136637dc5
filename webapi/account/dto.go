package account

// CreateAccountRequest represents the request body for creating a new account.
type CreateAccountRequest struct {
	Type     string `json:"type" validate:"omitempty,oneof=savings current"`
	Currency string `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
}
