package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gravitational/trace"
)

// TokenInfo is what can be read from an access token without the signing key.
type TokenInfo struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// InspectAccessToken decodes the claims of a JWT access token. The signature
// is NOT verified, so the result is for display only.
func InspectAccessToken(token string) (*TokenInfo, error) {
	if token == "" {
		return nil, trace.BadParameter("missing access token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, trace.BadParameter("access token is not a JWT: %v", err)
	}

	info := &TokenInfo{}
	switch sub := claims["sub"].(type) {
	case nil:
	case string:
		info.Subject = sub
	case float64:
		info.Subject = fmt.Sprintf("%.0f", sub)
	default:
		info.Subject = fmt.Sprint(sub)
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	return info, nil
}
