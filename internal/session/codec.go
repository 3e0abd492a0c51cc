package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidState marks a session cookie that failed signature or version
// checks. Callers treat it as an absent session, never a fatal error.
var ErrInvalidState = errors.New("invalid session state")

type stateClaims struct {
	State
	jwt.RegisteredClaims
}

// Codec signs and verifies the client-held session state.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec around the session signing secret.
func NewCodec(secret string) Codec {
	return Codec{secret: []byte(secret)}
}

// Issue signs the state into a compact token suitable for a cookie.
func (c Codec) Issue(state State) (string, error) {
	state.Version = Version
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{State: state})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session state: %w", err)
	}
	return signed, nil
}

// Decode verifies a token and returns the state it carries. Tampered,
// malformed or stale-version tokens return ErrInvalidState.
func (c Codec) Decode(token string) (State, error) {
	if token == "" {
		return State{Version: Version}, nil
	}

	var claims stateClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return State{}, ErrInvalidState
	}

	if claims.State.Version != Version {
		return State{}, ErrInvalidState
	}

	return claims.State, nil
}
