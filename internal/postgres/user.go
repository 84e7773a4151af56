package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luminastore/lumina/internal/auth"
	"github.com/luminastore/lumina/internal/domain"
)

// sessionTTL is how long a login session stays valid.
const sessionTTL = 7 * 24 * time.Hour

// UserService implements domain.UserService using PostgreSQL.
type UserService struct {
	pool *pgxpool.Pool
}

// Compile-time check that UserService implements domain.UserService.
var _ domain.UserService = (*UserService)(nil)

// NewUserService creates a new PostgreSQL-backed user service.
func NewUserService(pool *pgxpool.Pool) *UserService {
	return &UserService{pool: pool}
}

// Register creates a new account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
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

	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		params.FirstName, params.LastName, email, hash,
	).Scan(&id, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, domain.Internal(err, "user.register", "failed to create user")
	}

	return &domain.User{
		ID:        fromPG(id),
		Email:     email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		CreatedAt: createdAt.Time,
	}, nil
}

// Login verifies credentials and creates a new session.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		id           pgtype.UUID
		firstName    string
		lastName     string
		passwordHash string
		createdAt    pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, password_hash, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&id, &firstName, &lastName, &passwordHash, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", domain.Internal(err, "user.login", "failed to look up user")
	}

	if err := auth.VerifyPassword(password, passwordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", domain.Internal(err, "user.login", "failed to verify password")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, "", domain.Internal(err, "user.login", "failed to generate session token")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		id, token, time.Now().Add(sessionTTL),
	)
	if err != nil {
		return nil, "", domain.Internal(err, "user.login", "failed to create session")
	}

	return &domain.User{
		ID:        fromPG(id),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: createdAt.Time,
	}, token, nil
}

// Logout destroys the session. Unknown tokens are a no-op.
func (s *UserService) Logout(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return domain.Internal(err, "user.logout", "failed to delete session")
	}
	return nil
}

// UserBySessionToken resolves an unexpired session token to its user.
func (s *UserService) UserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	var (
		id        pgtype.UUID
		email     string
		firstName string
		lastName  string
		createdAt pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx,
		`SELECT u.id, u.email, u.first_name, u.last_name, u.created_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1 AND s.expires_at > now()`,
		token,
	).Scan(&id, &email, &firstName, &lastName, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.Internal(err, "user.by_session", "failed to resolve session")
	}

	return &domain.User{
		ID:        fromPG(id),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: createdAt.Time,
	}, nil
}
