package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"eventticketing/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository keyed by email.
type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	nextID  int
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID + "-" + role.String(), nil
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		userName string
		role     domain.Role
		wantRole domain.Role
		errIs    error
	}{
		{name: "defaults to user", email: " Alice@Example.COM ", password: "password1", userName: "Alice", wantRole: domain.RoleUser},
		{name: "organizer", email: "olivia@example.com", password: "password1", userName: "Olivia", role: domain.RoleOrganizer, wantRole: domain.RoleOrganizer},
		{name: "admin cannot self-register", email: "eve@example.com", password: "password1", userName: "Eve", role: domain.RoleAdmin, errIs: domain.ErrInvalidInput},
		{name: "short password", email: "bob@example.com", password: "short", userName: "Bob", errIs: domain.ErrInvalidInput},
		{name: "bad email", email: "bob-at-example", password: "password1", userName: "Bob", errIs: domain.ErrInvalidInput},
		{name: "missing name", email: "bob@example.com", password: "password1", userName: "  ", errIs: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(newFakeUserRepo(), fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, time.Second)
			user, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password, tt.role)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, normalizeEmail(tt.email), user.Email)
			assert.Equal(t, "salt", user.Salt)
			assert.NotEmpty(t, user.PasswordHash)
		})
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, time.Second)
	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password1", "")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "Alice 2", "ALICE@example.com", "password2", "")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, time.Second)
	registered, err := svc.Register(context.Background(), "Olivia", "olivia@example.com", "password1", domain.RoleOrganizer)
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "OLIVIA@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "token-"+registered.ID+"-organizer", token)

	_, _, err = svc.Login(context.Background(), "olivia@example.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password1")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	failing := NewUserService(repo, fakePasswordHasher{}, &fakeTokenIssuer{err: errors.New("no key")}, time.Hour, time.Second)
	_, _, err = failing.Login(context.Background(), "olivia@example.com", "password1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, fakePasswordHasher{}, &fakeTokenIssuer{}, time.Hour, time.Second)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "", "Admin@Example.com", "bootstrap-pass"))
	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "Administrator", admin.Name)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "bootstrap-pass"), "idempotent")
	assert.Len(t, repo.byEmail, 1)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "", ""), "no-op without credentials")
}
