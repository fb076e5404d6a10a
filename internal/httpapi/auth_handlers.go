package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/obs"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.handleError(w, r, err)
		return
	}
	username := strings.TrimSpace(req.Username)

	res, err := a.auth.Login(r.Context(), username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			obs.ObserveLogin("failure")
			_ = a.audit.Event(r.Context(), "auth.login.failed", map[string]any{
				"username":  username,
				"remote_ip": clientIP(r),
			})
			writeError(w, r, http.StatusUnauthorized, "Bad credentials", "invalid username or password")
			return
		}
		obs.ObserveLogin("error")
		a.handleError(w, r, err)
		return
	}

	if a.opts.CookieEnabled {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    res.Token,
			Path:     "/",
			MaxAge:   int(a.auth.Tokens().TTL().Seconds()),
			HttpOnly: true,
			Secure:   a.opts.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	obs.ObserveLogin("success")
	ctx := auth.ContextWithIdentity(r.Context(), res.Identity)
	_ = a.audit.Event(ctx, "auth.login.succeeded", map[string]any{
		"expires_at": res.ExpiresAt.UTC(),
		"remote_ip":  clientIP(r),
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token})
}

// handleMe reports the caller's username and current roles. It reads the
// token itself so it can distinguish a missing token from a bad one.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromRequest(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "No token", "")
		return
	}
	id, err := a.auth.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) || errors.Is(err, auth.ErrNoToken) {
			writeError(w, r, http.StatusUnauthorized, "Invalid token", "")
			return
		}
		a.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Username: id.Username, Roles: id.Roles.Strings()})
}
