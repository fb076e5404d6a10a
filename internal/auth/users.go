package auth

import (
	"context"
	"strings"

	"drimer.pl/drimain/internal/apperr"
)

// NewUser describes a user to provision.
type NewUser struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// Provision validates, hashes and stores a new user. At least one known role
// is required so the user can reach protected routes.
func Provision(ctx context.Context, store UserStore, in NewUser) (User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return User{}, apperr.Validation("username is required")
	}
	if len(in.Password) < 6 {
		return User{}, apperr.Validation("password must be at least 6 characters")
	}
	roles := NormalizeRoles(in.Roles)
	if len(roles) == 0 {
		return User{}, apperr.Validation("at least one role of ADMIN, BIURO, USER is required")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	return store.CreateUser(ctx, username, hash, roles)
}

// Summarize converts users into their admin listing view.
func Summarize(users []User) []UserSummary {
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = UserSummary{ID: u.ID, Username: u.Username, Roles: u.Roles.Strings()}
	}
	return out
}
