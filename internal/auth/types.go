package auth

import (
	"context"
	"time"
)

// User is a stored principal able to log in.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Roles        Roles
	CreatedAt    time.Time
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   int64
	Username string
	Roles    Roles
}

// UserSummary is the admin listing view of a user.
type UserSummary struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// CredentialStore looks up users by username. Unknown usernames yield ErrNotFound.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (User, error)
}

// UserStore provisions users.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string, roles Roles) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}
