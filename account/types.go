package account

import (
	"github.com/gravitational/account-registration/lib/credentials"
)

// RegisterRequest is the payload sent to the register endpoint.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Tokens is a successful registration result. Both fields are always set.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Credentials converts t for storing in a credentials.Session.
func (t Tokens) Credentials() credentials.Credentials {
	return credentials.Credentials{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}
}

// tokensResponse accepts both key spellings the API has used.
type tokensResponse struct {
	AccessToken       string `json:"accessToken"`
	RefreshToken      string `json:"refreshToken"`
	AccessTokenSnake  string `json:"access_token"`
	RefreshTokenSnake string `json:"refresh_token"`
}

func (r tokensResponse) tokens() Tokens {
	tokens := Tokens{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
	if tokens.AccessToken == "" {
		tokens.AccessToken = r.AccessTokenSnake
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = r.RefreshTokenSnake
	}
	return tokens
}
