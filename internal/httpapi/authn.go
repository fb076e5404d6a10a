package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
	cookieName = "JWT"
	loginPath  = "/login"
)

var publicPaths = []string{
	"/",
	loginPath,
	"/favicon.ico",
}

// authenticate is the access guard: it resolves the bearer token (header
// first, then the JWT cookie) into an identity with live roles.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := tokenFromRequest(r)
		if !ok {
			obs.ObserveRejection("no_token")
			a.unauthenticated(w, r)
			return
		}
		id, err := a.auth.Resolve(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				obs.ObserveRejection("expired_token")
				a.unauthenticated(w, r)
			case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrNoToken):
				obs.ObserveRejection("invalid_token")
				a.unauthenticated(w, r)
			default:
				a.handleError(w, r, err)
			}
			return
		}
		if err := auth.Authorize(id); err != nil {
			obs.ObserveRejection("no_roles")
			a.handleError(w, r, err)
			return
		}
		ctx := auth.ContextWithIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRoles admits identities holding any of roles.
func (a *API) requireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				obs.ObserveRejection("no_identity")
				a.unauthenticated(w, r)
				return
			}
			if err := auth.Authorize(id, roles...); err != nil {
				obs.ObserveRejection("forbidden")
				a.handleError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// unauthenticated answers API clients with a JSON 401 and sends browsers
// asking for pages to the login page.
func (a *API) unauthenticated(w http.ResponseWriter, r *http.Request) {
	if !isAPIPath(r.URL.Path) && strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}
	writeError(w, r, http.StatusUnauthorized, "", "authentication required")
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if token, err := extractBearerToken(r.Header.Get(authHeader)); err == nil {
		return token, true
	}
	if c, err := r.Cookie(cookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value), true
	}
	return "", false
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
