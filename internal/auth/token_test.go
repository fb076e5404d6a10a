package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens(t *testing.T, now func() time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		Secret: []byte(testSecret),
		TTL:    time.Hour,
		Issuer: "drimain-test",
	}, WithClock(now))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokens(t, time.Now)

	token, err := svc.Generate("admin", map[string]any{"roles": []string{"ADMIN", "USER"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	user, err := svc.ExtractUsername(token)
	if err != nil {
		t.Fatalf("ExtractUsername: %v", err)
	}
	if user != "admin" {
		t.Fatalf("unexpected subject: %s", user)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "ADMIN" {
		t.Fatalf("roles claim not preserved: %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("unexpected lifetime: %s", got)
	}
}

func TestTokenRegisteredClaimsWin(t *testing.T) {
	svc := newTestTokens(t, time.Now)

	token, err := svc.Generate("admin", map[string]any{"sub": "root", "exp": 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	user, err := svc.ExtractUsername(token)
	if err != nil {
		t.Fatalf("ExtractUsername: %v", err)
	}
	if user != "admin" {
		t.Fatalf("caller claims overrode subject: %s", user)
	}
}

func TestTokenExpired(t *testing.T) {
	issued := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clock := issued
	svc := newTestTokens(t, func() time.Time { return clock })

	token, err := svc.Generate("biuro", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	clock = issued.Add(time.Hour + time.Second)

	if _, err := svc.ExtractUsername(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if svc.IsValid(token, "biuro") {
		t.Fatal("expired token reported valid")
	}
}

func TestTokenRejectsMalformedInput(t *testing.T) {
	svc := newTestTokens(t, time.Now)

	for _, raw := range []string{"", "   ", "invalid.jwt.token", "abc", "a.b.c.d"} {
		if _, err := svc.ExtractUsername(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("ExtractUsername(%q): expected ErrTokenInvalid, got %v", raw, err)
		}
		if svc.IsValid(raw, "admin") {
			t.Fatalf("IsValid(%q) returned true", raw)
		}
	}
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestTokens(t, time.Now)
	other, err := NewTokenService(TokenConfig{
		Secret: []byte(strings.Repeat("x", 40)),
		Issuer: "drimain-test",
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	forged, err := other.Generate("admin", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.ExtractUsername(forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	// Graft a different payload onto a genuine signature.
	genuine, _ := svc.Generate("user", nil)
	mallory, _ := svc.Generate("admin", nil)
	g := strings.Split(genuine, ".")
	m := strings.Split(mallory, ".")
	spliced := g[0] + "." + m[1] + "." + g[2]
	if svc.IsValid(spliced, "admin") {
		t.Fatal("spliced token accepted")
	}
}

func TestTokenRejectsUnsignedAlgorithm(t *testing.T) {
	svc := newTestTokens(t, time.Now)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "admin",
		"iss": "drimain-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.ExtractUsername(unsigned); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenRejectsWrongIssuer(t *testing.T) {
	svc := newTestTokens(t, time.Now)
	other, err := NewTokenService(TokenConfig{Secret: []byte(testSecret), Issuer: "someone-else"})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, _ := other.Generate("admin", nil)
	if svc.IsValid(token, "admin") {
		t.Fatal("token from another issuer accepted")
	}
}

func TestIsValidMatchesSubjectExactly(t *testing.T) {
	svc := newTestTokens(t, fixedClock(time.Now()))
	token, err := svc.Generate("Admin", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !svc.IsValid(token, "Admin") {
		t.Fatal("expected token valid for its own subject")
	}
	if svc.IsValid(token, "admin") {
		t.Fatal("subject comparison must be case-sensitive")
	}
}

func TestNewTokenServiceValidatesConfig(t *testing.T) {
	if _, err := NewTokenService(TokenConfig{Secret: []byte("short")}); err == nil {
		t.Fatal("expected short secret to be rejected")
	}
	if _, err := NewTokenService(TokenConfig{Secret: []byte(testSecret), TTL: -time.Second}); err == nil {
		t.Fatal("expected negative ttl to be rejected")
	}
	svc, err := NewTokenService(TokenConfig{Secret: []byte(testSecret)})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	if svc.TTL() != DefaultTokenTTL {
		t.Fatalf("unexpected default ttl: %s", svc.TTL())
	}
}

func TestTokenServiceCopiesSecret(t *testing.T) {
	key := []byte(testSecret)
	svc, err := NewTokenService(TokenConfig{Secret: key})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, _ := svc.Generate("admin", nil)
	key[0] = 'X'
	if !svc.IsValid(token, "admin") {
		t.Fatal("mutating the caller's key changed the signing key")
	}
}
