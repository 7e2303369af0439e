package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the provider endpoint or service key
// is missing from the environment.
var ErrNotConfigured = errors.New("identity provider not configured: IDENTITY_PROVIDER_URL or IDENTITY_SERVICE_KEY is not set")

// CreatedUser is the provider's record for a newly created account.
type CreatedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Provider creates identity-provider accounts. CreateUser defers email
// confirmation so the provider sends an invitation message instead of
// activating the account immediately.
type Provider interface {
	CreateUser(ctx context.Context, email string) (*CreatedUser, error)
}

// ProviderError is a rejection returned by the identity provider itself,
// e.g. a duplicate or invalid email address.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider rejected request (%d): %s", e.StatusCode, e.Message)
}
