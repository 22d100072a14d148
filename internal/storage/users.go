package storage

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cargaexpress/booking/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// StaticUserRepo backs the file storage mode, where there is no users table.
// Accounts are seeded once at startup and held in memory; passwords are still
// bcrypt-hashed so Authenticate behaves like the postgres repo.
type StaticUserRepo struct {
	mu    sync.RWMutex
	users map[string]repository.User
}

func NewStaticUserRepo() *StaticUserRepo {
	return &StaticUserRepo{users: make(map[string]repository.User)}
}

// NewStaticUserRepoFromEnv seeds the same demo accounts the postgres seeder
// creates, read from DEMO_CLIENT_* and DEMO_DRIVER_* variables.
func NewStaticUserRepoFromEnv() *StaticUserRepo {
	repo := NewStaticUserRepo()
	repo.addFromEnv("DEMO_CLIENT_USERNAME", "DEMO_CLIENT_PASSWORD", "client")
	repo.addFromEnv("DEMO_DRIVER_USERNAME", "DEMO_DRIVER_PASSWORD", "driver")
	return repo
}

func (r *StaticUserRepo) addFromEnv(userKey, passKey, role string) {
	username := os.Getenv(userKey)
	password := os.Getenv(passKey)
	if username == "" || password == "" {
		return
	}
	_ = r.AddUser(username, password, role)
}

func (r *StaticUserRepo) AddUser(username, password, role string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[username] = repository.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	return nil
}

func (r *StaticUserRepo) Authenticate(ctx context.Context, username, password string) (*repository.User, error) {
	r.mu.RLock()
	user, ok := r.users[username]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
