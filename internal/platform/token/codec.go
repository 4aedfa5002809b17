package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation failures. Callers must treat every one of them as "request is
// unauthenticated" — none of them is fatal.
var (
	ErrSignature   = errors.New("token signature mismatch")
	ErrMalformed   = errors.New("token malformed")
	ErrExpired     = errors.New("token expired")
	ErrUnsupported = errors.New("token scheme not supported")
)

// Claims carried by an issued token: subject (username), issued-at, expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// Subject returns the username the token was issued for.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Codec issues and validates self-contained signed tokens. Tokens are signed
// with HMAC-SHA-512 over a process-wide symmetric secret, so any server
// instance holding the secret can validate a token issued by any other
// instance — no session store. The flip side: a token cannot be revoked
// before its expiry, so the TTL is the only bound on the lifetime of a
// compromised token. Keep it short.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue builds and signs a token for the given subject. The token expires
// at now+ttl.
func (c *Codec) Issue(subject string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenStr, checks the signature and expiry against now, and
// returns the claims. Failures are reported as one of the typed errors above.
func (c *Codec) Validate(tokenStr string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{"HS512"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, ErrSignature
	}

	return claims, nil
}

// classify maps jwt library errors onto the codec's error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrInvalidKeyType),
		errors.Is(err, jwt.ErrHashUnavailable):
		return ErrUnsupported
	default:
		return ErrMalformed
	}
}
