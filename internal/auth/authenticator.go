package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// RolesClaim is the token claim carrying the role names at issuance.
const RolesClaim = "roles"

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// Authenticator checks credentials and resolves bearer tokens into identities.
type Authenticator struct {
	store  CredentialStore
	tokens *TokenService
	now    func() time.Time
}

// NewAuthenticator wires the credential store to the token service.
func NewAuthenticator(store CredentialStore, tokens *TokenService) *Authenticator {
	return &Authenticator{store: store, tokens: tokens, now: tokens.now}
}

// Tokens exposes the underlying token service.
func (a *Authenticator) Tokens() *TokenService { return a.tokens }

// Login verifies username and password. Unknown users and wrong passwords
// both return ErrBadCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, ErrBadCredentials
	}
	user, err := a.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			burnCompare(password)
			return LoginResult{}, ErrBadCredentials
		}
		return LoginResult{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrBadCredentials
	}

	issuedAt := a.now()
	token, err := a.tokens.Generate(user.Username, map[string]any{
		RolesClaim: user.Roles.Strings(),
	})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:     token,
		ExpiresAt: issuedAt.Add(a.tokens.TTL()),
		Identity:  identityOf(user),
	}, nil
}

// Resolve turns a bearer token into an identity carrying the user's current
// roles. The role claim inside the token is not consulted.
func (a *Authenticator) Resolve(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrNoToken
	}
	username, err := a.tokens.ExtractUsername(token)
	if err != nil {
		return Identity{}, errors.Join(ErrUnauthorized, err)
	}
	user, err := a.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, err
	}
	return identityOf(user), nil
}

// Authorize checks the identity against a route requirement. An empty
// requirement admits any identity holding at least one role.
func Authorize(id Identity, required ...Role) error {
	if len(id.Roles) == 0 {
		return ErrForbidden
	}
	if len(required) == 0 || id.Roles.HasAny(required...) {
		return nil
	}
	return ErrForbidden
}

func identityOf(u User) Identity {
	roles := make(Roles, len(u.Roles))
	copy(roles, u.Roles)
	return Identity{UserID: u.ID, Username: u.Username, Roles: roles}
}
