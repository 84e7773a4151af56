package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserExists         = &Error{Code: ECONFLICT, Message: "Email already registered"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionNotFound    = &Error{Code: ENOTFOUND, Message: "Session not found"}
)

// User is the session identity attached to authenticated requests.
type User struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// Session is a persisted login session. The token is the opaque value
// stored in the client cookie.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RegisterParams contains the fields required to create an account.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService is the session-identity collaborator. The cart and checkout
// layers treat it as a black box: they only ever see the resolved User.
type UserService interface {
	// Register creates a new account. Fails with ErrUserExists when the
	// email is already taken (emails are matched case-insensitively).
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Login verifies credentials and creates a session, returning the user
	// and the session token to set in the client cookie.
	Login(ctx context.Context, email, password string) (*User, string, error)

	// Logout destroys the session identified by token. Unknown tokens are
	// a no-op.
	Logout(ctx context.Context, token string) error

	// UserBySessionToken resolves a session token to its user.
	// Expired sessions resolve to ErrSessionNotFound.
	UserBySessionToken(ctx context.Context, token string) (*User, error)
}
