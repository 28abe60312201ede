package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

type Auther struct {
	store        IdentityStore
	hasher       PasswordHasher
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
	sentinelHash string
}

// NewAuthenticator returns a new Authenticator wired from the given
// store and configuration. The signing key and hashing cost are fixed
// here and never mutated afterwards.
func NewAuthenticator(store IdentityStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	hasher := NewHasher(opts.GetPasswordCost())

	// Pre-computed digest compared against on the unknown-email path so
	// both InvalidLogin causes do comparable work.
	sentinel, _ := hasher.HashPassword(uuid.NewString())

	return &Auther{
		store:        store,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		sentinelHash: sentinel,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenService sets a custom token service.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithPasswordHasher sets a custom password hasher.
func (s *Auther) WithPasswordHasher(h PasswordHasher) *Auther {
	if h != nil {
		s.hasher = h
		s.sentinelHash, _ = h.HashPassword(uuid.NewString())
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Signup creates a new account. All credential validation happens
// before the store is touched; duplicate email or shortname surfaces as
// a Conflict naming the field. New accounts start inactive and without
// the federated (AAI) flag.
func (s *Auther) Signup(ctx context.Context, payload SignupPayload) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(payload.Email)

	hash, err := s.hasher.HashPassword(payload.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		ID:           accountID(email),
		Email:        email,
		Shortname:    payload.Shortname,
		PasswordHash: hash,
		Institution:  payload.Institution,
		UseCase:      payload.UseCase,
		IsActive:     false,
		IsAAI:        false,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		s.logger.Error("Signup create user error: %v", err)
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventSignup, created.ID.String(), map[string]any{
		"shortname": created.Shortname,
	})

	return created, nil
}

// Login authenticates an email/password pair and issues a token. An
// unknown email and a wrong password produce the same ErrInvalidLogin;
// nothing in the result or its timing distinguishes them.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	normalized := NormalizeEmail(email)

	user, err := s.store.GetByEmail(ctx, normalized)
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.hasher.ComparePasswordAndHash(password, s.sentinelHash)
			s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
				"email": normalized,
			})
			return nil, ErrInvalidLogin
		}
		s.logger.Error("Login lookup error: %v", err)
		return nil, err
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, user.ID.String(), map[string]any{
			"email": normalized,
		})
		return nil, ErrInvalidLogin
	}

	token, err := s.tokenService.Issue(user.AsIdentity())
	if err != nil {
		s.logger.Error("Login token issue error: %v", err)
		return nil, err
	}

	// Best-effort bookkeeping: a failed timestamp must not fail the login.
	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Login failed to update last_login_at: %v", err)
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, user.ID.String(), map[string]any{
		"email": normalized,
	})

	return &LoginResult{UserID: user.ID, Token: token}, nil
}

// ChangePassword validates and persists a new password. Tokens issued
// before the change stay valid until they expire on their own.
func (s *Auther) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) (*User, error) {
	if err := ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user, err := s.store.UpdatePassword(ctx, userID, hash)
	if err != nil {
		s.logger.Error("ChangePassword update error: %v", err)
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventPasswordChanged, user.ID.String(), nil)

	return user, nil
}

// ClaimsFromToken verifies a raw token and returns its claims.
func (s *Auther) ClaimsFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

var _ Authenticator = (*Auther)(nil)

// IsAuthenticated reports whether the given auth context belongs to an
// identified subject. Pure; safe on nil claims.
func IsAuthenticated(claims AuthClaims) bool {
	return claims != nil && claims.UserID() != ""
}

// RequireAuth wraps a handler so it only runs for authenticated
// contexts. On a missing or subject-less claim set it fails with
// ErrUnauthorized without invoking the handler. Every protected
// operation in the API layer routes through this gate.
func RequireAuth[T any](handler func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		claims, ok := GetClaims(ctx)
		if !ok || !IsAuthenticated(claims) {
			var zero T
			return zero, ErrUnauthorized
		}
		return handler(ctx)
	}
}

// accountID derives a deterministic id from the normalized email so
// re-creating the same account yields the same primary key.
func accountID(normalizedEmail string) uuid.UUID {
	if id, err := hashid.NewUUID(normalizedEmail); err == nil {
		return id
	}
	return uuid.New()
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
