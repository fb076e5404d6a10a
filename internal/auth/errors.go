package auth

import (
	"errors"

	"drimer.pl/drimain/internal/apperr"
)

var (
	ErrNoToken        = errors.New("auth: no token")
	ErrTokenInvalid   = errors.New("auth: invalid token")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrUnauthorized   = errors.New("auth: unauthorized")
	ErrForbidden      = errors.New("auth: forbidden")
	ErrBadCredentials = errors.New("auth: bad credentials")

	// ErrNotFound is returned by credential stores for unknown usernames.
	ErrNotFound = apperr.ErrNotFound
)
