package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// identityStore adapts the Users repository to the narrow IdentityStore
// surface the Authenticator consumes. The repository keeps its wider
// Tx-aware API for callers that compose transactions themselves.
type identityStore struct {
	users Users
}

// NewIdentityStore returns an IdentityStore backed by the given bun
// database handle.
func NewIdentityStore(db *bun.DB, opts ...UsersOption) IdentityStore {
	return &identityStore{users: NewUsersRepository(db, opts...)}
}

// NewIdentityStoreFromRepository wraps an existing Users repository,
// letting callers share one repository between the Authenticator and
// their own code.
func NewIdentityStoreFromRepository(users Users) IdentityStore {
	return &identityStore{users: users}
}

func (s *identityStore) Create(ctx context.Context, user *User) (*User, error) {
	return s.users.Create(ctx, user)
}

func (s *identityStore) GetByEmail(ctx context.Context, normalizedEmail string) (*User, error) {
	return s.users.GetByEmail(ctx, normalizedEmail)
}

func (s *identityStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByIdentifier(ctx, id.String())
}

func (s *identityStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error) {
	return s.users.UpdatePassword(ctx, id, passwordHash)
}

func (s *identityStore) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return s.users.TouchLastLogin(ctx, id)
}

var _ IdentityStore = (*identityStore)(nil)
