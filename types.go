package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with the account credential lifecycle
type Authenticator interface {
	Signup(ctx context.Context, payload SignupPayload) (*User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) (*User, error)
	ClaimsFromToken(token string) (AuthClaims, error)
}

// SignupPayload carries the attributes needed to create an account.
// Institution and UseCase are free text, opaque to this package.
type SignupPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Shortname   string `json:"shortname"`
	Institution string `json:"institution"`
	UseCase     string `json:"use_case"`
}

// LoginResult is what a successful login produces: the account id and a
// signed token ready to be written to the response token channel.
type LoginResult struct {
	UserID uuid.UUID
	Token  string
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Email() string
	Shortname() string
	AAI() bool
}

// IdentityStore is the gateway to the persistence layer. It is the only
// point of contact with storage; it must enforce email/shortname
// uniqueness atomically and owns retry budgets for transient failures.
type IdentityStore interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, normalizedEmail string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// TokenService issues and validates signed tokens
type TokenService interface {
	TokenValidator
	Issue(identity Identity) (string, error)
}

// TokenValidator validates tokens and extracts claims without tying
// callers to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options, read once at startup and immutable after
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetCookieName() string
	GetAuthScheme() string
	GetIssuer() string
	GetPasswordCost() int
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
