// Package tokenpkg issues and verifies the access tokens handed out at login.
package tokenpkg

import (
	"fmt"
	"time"
)

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for a specific username and duration.
	CreateToken(username string, duration time.Duration) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// Supported token maker kinds.
const (
	KindPaseto = "paseto"
	KindJWT    = "jwt"
)

// NewMaker returns the token maker of the given kind keyed with symmetricKey.
func NewMaker(kind, symmetricKey string) (Maker, error) {
	var (
		maker Maker
		err   error
	)

	switch kind {
	case KindPaseto:
		maker, err = NewPasetoMaker(symmetricKey)
	case KindJWT:
		maker, err = NewJWTMaker(symmetricKey)
	default:
		return nil, fmt.Errorf("unsupported token maker %q: must be %q or %q", kind, KindPaseto, KindJWT)
	}

	if err != nil {
		return nil, err
	}

	return maker, nil
}
