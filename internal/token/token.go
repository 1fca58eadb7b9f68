package token

import (
	"fmt"
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// Identity is the authenticated principal embedded in a session token.
type Identity struct {
	UserID int64
	Email  string
}

// sessionClaims is the custom JWT payload alongside the standard claim set.
type sessionClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// Signer issues and verifies HS256 session tokens with a shared secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner constructs a session token signer. Tokens expire after ttl.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign produces a signed session token bound to the identity.
func (s *Signer) Sign(identity Identity) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: s.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := time.Now().UTC()
	std := gojwt.Claims{
		Subject:   strconv.FormatInt(identity.UserID, 10),
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		Expiry:    gojwt.NewNumericDate(now.Add(s.ttl)),
	}
	custom := sessionClaims{UserID: identity.UserID, Email: identity.Email}

	signed, err := gojwt.Signed(signer).Claims(std).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Any failure yields ok=false; verification never returns an error because
// an unverifiable token and a missing token are the same thing to callers.
func (s *Signer) Verify(raw string) (Identity, bool) {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return Identity{}, false
	}

	var std gojwt.Claims
	var custom sessionClaims
	if err := parsed.Claims(s.secret, &std, &custom); err != nil {
		return Identity{}, false
	}
	if err := std.Validate(gojwt.Expected{Time: time.Now().UTC()}); err != nil {
		return Identity{}, false
	}
	if custom.UserID == 0 {
		return Identity{}, false
	}

	return Identity{UserID: custom.UserID, Email: custom.Email}, true
}
