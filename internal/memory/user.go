package memory

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/auth"
	"github.com/luminastore/lumina/internal/domain"
)

const sessionTTL = 7 * 24 * time.Hour

var _ domain.UserService = (*Store)(nil)

// Register creates a new account with a bcrypt password hash.
func (s *Store) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || params.Password == "" {
		return nil, domain.Invalid("user.register", "email and password are required")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid("user.register", "password must be at least 8 characters")
		}
		return nil, domain.Internal(err, "user.register", "failed to hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return nil, domain.ErrUserExists
	}

	user := domain.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		CreatedAt: time.Now(),
	}
	s.users[user.ID] = &userRecord{user: user, passwordHash: hash}
	s.usersByEmail[email] = user.ID

	return &user, nil
}

// Login verifies credentials and creates a new session.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	rec, ok := func() (*userRecord, bool) {
		id, ok := s.usersByEmail[email]
		if !ok {
			return nil, false
		}
		return s.users[id], true
	}()
	s.mu.Unlock()

	if !ok {
		return nil, "", domain.ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(password, rec.passwordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", domain.Internal(err, "user.login", "failed to verify password")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, "", domain.Internal(err, "user.login", "failed to generate session token")
	}

	s.mu.Lock()
	s.sessions[token] = domain.Session{
		ID:        uuid.New(),
		UserID:    rec.user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(sessionTTL),
		CreatedAt: time.Now(),
	}
	s.mu.Unlock()

	user := rec.user
	return &user, token, nil
}

// Logout destroys the session. Unknown tokens are a no-op.
func (s *Store) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// UserBySessionToken resolves an unexpired session token to its user.
func (s *Store) UserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}

	rec, ok := s.users[sess.UserID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	user := rec.user
	return &user, nil
}

func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
