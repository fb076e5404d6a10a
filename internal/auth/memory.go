package auth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"drimer.pl/drimain/internal/apperr"
)

// MemoryStore is an in-process CredentialStore and UserStore.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]User
}

var (
	_ CredentialStore = (*MemoryStore)(nil)
	_ UserStore       = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (m *MemoryStore) FindByUsername(_ context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, username, passwordHash string, roles Roles) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, apperr.Validation("username is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[username]; exists {
		return User{}, apperr.Conflict("user %q already exists", username)
	}
	m.nextID++
	u := User{
		ID:           m.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		Roles:        append(Roles(nil), roles...),
		CreatedAt:    time.Now().UTC(),
	}
	m.users[username] = u
	return u, nil
}

func (m *MemoryStore) ListUsers(context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SetRoles replaces the roles of an existing user.
func (m *MemoryStore) SetRoles(username string, roles Roles) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return ErrNotFound
	}
	u.Roles = append(Roles(nil), roles...)
	m.users[username] = u
	return nil
}
