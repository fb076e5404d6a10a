package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"drimer.pl/drimain/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	a := newTestAPIHandler(t)
	handler := a.requireRoles(auth.RoleAdmin, auth.RoleBiuro)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dzialy", nil)
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{Username: "biuro", Roles: auth.Roles{auth.RoleBiuro}}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireRolesRejectsMissingRole(t *testing.T) {
	a := newTestAPIHandler(t)
	handler := a.requireRoles(auth.RoleAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dzialy", nil)
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{Username: "jan", Roles: auth.Roles{auth.RoleUser}}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireRolesRejectsMissingIdentity(t *testing.T) {
	a := newTestAPIHandler(t)
	handler := a.requireRoles(auth.RoleAdmin)(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/dzialy", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthenticateRejectsIdentityWithoutRoles(t *testing.T) {
	users := auth.NewMemoryStore()
	if _, err := auth.Provision(t.Context(), users, auth.NewUser{Username: "pusty", Password: "secret12", Roles: []string{"USER"}}); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte(testSecret)})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	a := New(Deps{Auth: auth.NewAuthenticator(users, tokens)}, Options{})
	token, err := tokens.Generate("pusty", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := users.SetRoles("pusty", nil); err != nil {
		t.Fatalf("SetRoles: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/zgloszenia", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	a.authenticate(okHandler()).ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for identity without roles, got %d", rr.Code)
	}
}

func TestTokenFromRequestPrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "bearer header-token")
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "cookie-token"})
	if got, ok := tokenFromRequest(req); !ok || got != "header-token" {
		t.Fatalf("expected header token, got %q (ok=%v)", got, ok)
	}

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got, ok := tokenFromRequest(req); !ok || got != "cookie-token" {
		t.Fatalf("expected cookie fallback, got %q (ok=%v)", got, ok)
	}

	if _, ok := tokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("expected no token")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc":   true,
		"BEARER abc":   true,
		"Bearer ":      false,
		"":             false,
		"Token abc":    false,
		"Bearerabcdef": false,
	}
	for header, ok := range cases {
		_, err := extractBearerToken(header)
		if ok != (err == nil) {
			t.Fatalf("extractBearerToken(%q): err=%v, want ok=%v", header, err, ok)
		}
	}
}
