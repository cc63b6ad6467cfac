// Package authtest provides an in-memory principal store for tests.
package authtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/krjofficial/mern-ecomm/internal/domain/enums"
	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	"github.com/krjofficial/mern-ecomm/internal/security"
	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
)

type UserStore struct {
	mu    sync.Mutex
	byID  map[string]model.User
	email map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:  make(map[string]model.User),
		email: make(map[string]string),
	}
}

// Add seeds a user with the given role, bypassing signup.
func (s *UserStore) Add(t *testing.T, email, password string, role enums.Role) model.User {
	t.Helper()
	user, err := s.Create(context.Background(), model.NewUser{
		Email:    email,
		Password: password,
		Name:     "Seeded",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func (s *UserStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.byID[id]; ok {
		delete(s.email, user.Email)
		delete(s.byID, id)
	}
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.email[model.NormalizeEmail(email)]
	if !ok {
		return model.User{}, authsvc.ErrPrincipalNotFound
	}
	return s.byID[id], nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return model.User{}, authsvc.ErrPrincipalNotFound
	}
	return user, nil
}

func (s *UserStore) Create(_ context.Context, in model.NewUser) (model.User, error) {
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := model.NormalizeEmail(in.Email)
	if _, exists := s.email[email]; exists {
		return model.User{}, authsvc.ErrAlreadyExists
	}
	role := in.Role
	if !role.Valid() {
		role = enums.RoleCustomer
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[user.ID] = user
	s.email[email] = user.ID
	return user, nil
}

func (s *UserStore) Save(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[user.ID]
	if !ok {
		return model.User{}, authsvc.ErrPrincipalNotFound
	}
	current.Name = user.Name
	current.Role = user.Role
	current.UpdatedAt = time.Now().UTC()
	s.byID[user.ID] = current
	return current, nil
}
