package auth

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/uptrace/bun"
)

var UpdateUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

var TouchLastLoginSQL = `UPDATE "users" AS "usr"
SET
	"last_login_at" = ?
WHERE
	("usr".id = ?)
	AND "usr"."deleted_at" IS NULL;`

// Users is the identity store gateway. It is the only point of contact
// with persistence: uniqueness of email and shortname is enforced here
// (by the storage layer's unique indexes), and transient storage
// failures are retried within a bounded budget before they surface.
type Users interface {
	repository.Repository[*User]

	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	GetByEmail(ctx context.Context, normalizedEmail string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, normalizedEmail string) (*User, error)
	GetByShortname(ctx context.Context, shortname string) (*User, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error)
	UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*User, error)

	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	TouchLastLoginTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db          *bun.DB
	retryBudget uint64
	backoff     time.Duration
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

type UsersOption func(*users)

// WithUsersRetryBudget overrides how many times a transient storage
// error is retried before surfacing as STORE_UNAVAILABLE.
func WithUsersRetryBudget(attempts uint64, backoff time.Duration) UsersOption {
	return func(u *users) {
		u.retryBudget = attempts
		if backoff > 0 {
			u.backoff = backoff
		}
	}
}

func NewUsersRepository(db *bun.DB, opts ...UsersOption) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	repoUsers := &users{
		Repository:  repo,
		db:          db,
		retryBudget: 3,
		backoff:     50 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoUsers)
		}
	}

	return repoUsers
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

// CreateTx inserts a new account. The unique indexes on email and
// shortname are the atomicity authority; the conflict probes below only
// label which field collided for the caller.
func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)

	var created *User
	err := a.withRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = a.Repository.CreateTx(ctx, tx, record, criteria...)
		return err
	})

	if err == nil {
		return created, nil
	}

	// Only uniqueness violations become Conflicts; anything else, the
	// exhausted-retry StoreUnavailable included, surfaces unchanged.
	if isUniqueViolation(err) {
		return nil, a.labelConflict(ctx, tx, record, err)
	}

	return nil, err
}

func (a *users) labelConflict(ctx context.Context, tx bun.IDB, record *User, cause error) error {
	if _, err := a.GetByEmailTx(ctx, tx, record.Email); err == nil {
		return ErrEmailTaken
	}

	if _, err := a.getByShortnameTx(ctx, tx, record.Shortname); err == nil {
		return ErrShortnameTaken
	}

	// The colliding row vanished between insert and probe; report the
	// conflict without a field label.
	return goerrors.Wrap(cause, goerrors.CategoryConflict, "account already exists")
}

func (a *users) GetByEmail(ctx context.Context, normalizedEmail string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, normalizedEmail)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, normalizedEmail string) (*User, error) {
	record := &User{}

	err := a.withRetry(ctx, func(ctx context.Context) error {
		return tx.NewSelect().
			Model(record).
			Where("?TableAlias.email = ?", normalizedEmail).
			Limit(1).
			Scan(ctx)
	})

	if err != nil {
		if isEmptyResult(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": normalizedEmail,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) GetByShortname(ctx context.Context, shortname string) (*User, error) {
	return a.getByShortnameTx(ctx, a.db, shortname)
}

func (a *users) getByShortnameTx(ctx context.Context, tx bun.IDB, shortname string) (*User, error) {
	record := &User{}

	err := a.withRetry(ctx, func(ctx context.Context) error {
		return tx.NewSelect().
			Model(record).
			Where("?TableAlias.shortname = ?", shortname).
			Limit(1).
			Scan(ctx)
	})

	if err != nil {
		if isEmptyResult(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"shortname": shortname,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error) {
	return a.UpdatePasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*User, error) {
	var updated bool
	err := a.withRetry(ctx, func(ctx context.Context) error {
		res, err := a.Repository.RawTx(ctx, tx, UpdateUserPasswordSQL, passwordHash, id.String())
		if err != nil {
			return err
		}
		updated = len(res) > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !updated {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return a.GetByIdentifier(ctx, id.String())
}

func (a *users) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return a.TouchLastLoginTx(ctx, a.db, id)
}

// TouchLastLoginTx is best-effort bookkeeping; callers may ignore the
// error. It is not retried: a missed timestamp is cheaper than holding
// a login hostage to the retry budget.
func (a *users) TouchLastLoginTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	lastLoginAt := time.Now()
	_, err := tx.NewRaw(TouchLastLoginSQL, lastLoginAt, id).Exec(ctx)
	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func (a *users) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(a.retryBudget, retry.NewConstant(a.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})

	if err != nil && isTransient(err) {
		return goerrors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
			WithTextCode(ErrStoreUnavailable.TextCode)
	}

	return err
}

func isEmptyResult(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err)
}

// isTransient reports whether a storage error is worth retrying.
// Uniqueness violations and missing rows never are; retrying them
// cannot succeed.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique violation")
}
