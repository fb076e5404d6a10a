package auth

import (
	"reflect"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":      RoleAdmin,
		"admin":      RoleAdmin,
		"ROLE_BIURO": RoleBiuro,
		" role_user": RoleUser,
	}
	for raw, want := range cases {
		got, ok := ParseRole(raw)
		if !ok || got != want {
			t.Fatalf("ParseRole(%q)=%q,%v want %q", raw, got, ok, want)
		}
	}
	for _, raw := range []string{"", "ROLE_", "superuser"} {
		if _, ok := ParseRole(raw); ok {
			t.Fatalf("ParseRole(%q) should fail", raw)
		}
	}
}

func TestNormalizeRolesDedupes(t *testing.T) {
	got := NormalizeRoles([]string{"ROLE_ADMIN", "admin", "viewer", "USER"})
	want := Roles{RoleAdmin, RoleUser}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeRoles=%v want %v", got, want)
	}
	if !reflect.DeepEqual(got.Strings(), []string{"ADMIN", "USER"}) {
		t.Fatalf("unexpected wire encoding: %v", got.Strings())
	}
}

func TestCanModifyTickets(t *testing.T) {
	if CanModifyTickets(Roles{RoleUser}) {
		t.Fatal("USER must not modify tickets")
	}
	if CanModifyTickets(nil) {
		t.Fatal("empty role set must not modify tickets")
	}
	for _, r := range []Role{RoleAdmin, RoleBiuro} {
		if !CanModifyTickets(Roles{RoleUser, r}) {
			t.Fatalf("%s should modify tickets", r)
		}
	}
}
