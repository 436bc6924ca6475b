package credentials

import (
	"context"
)

// Credentials represents the tokens issued to the account by the API.
type Credentials struct {
	// AccessToken is the Bearer token used to access protected endpoints.
	// Empty means absent.
	AccessToken string `json:"access_token,omitempty"`
	// RefreshToken is used to acquire a new access token. Empty means absent.
	RefreshToken string `json:"refresh_token,omitempty"`
}

// IsEmpty reports whether neither token is set.
func (c Credentials) IsEmpty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Store defines the interface for persisting credentials between runs.
//
// GetCredentials returns a trace.NotFound error when nothing is stored.
// DeleteCredentials is idempotent.
type Store interface {
	GetCredentials(context.Context) (*Credentials, error)
	PutCredentials(context.Context, *Credentials) error
	DeleteCredentials(context.Context) error
}
