package utils // package utils provides helpers for bearer token creation

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its
// expiry. The Token field contains the JWT string. Access tokens are
// the only credential this service issues; there is no refresh flow,
// clients simply request a new token when theirs expires.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT whose subject is the
// holder's email. It takes the signing secret and a TTL in minutes
// (one hour in the default configuration). The JWT carries standard
// claims: subject (sub), expiration (exp) and issued at (iat). The
// role is deliberately NOT embedded; authorization always consults
// the user store so that role changes take effect immediately.
func NewAccessToken(secret, email string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": email,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
