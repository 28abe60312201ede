package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Email is stored normalized (see
// NormalizeEmail); email and shortname carry unique indexes that the
// storage layer enforces atomically.
type User struct {
	bun.BaseModel    `bun:"table:users,alias:usr"`
	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email            string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Shortname        string     `bun:"shortname,notnull,unique" json:"shortname,omitempty"`
	PasswordHash     string     `bun:"password_hash,notnull" json:"password_hash,omitempty"`
	Institution      string     `bun:"institution" json:"institution,omitempty"`
	UseCase          string     `bun:"use_case" json:"use_case,omitempty"`
	IsActive         bool       `bun:"is_active" json:"is_active"`
	IsAAI            bool       `bun:"is_aai" json:"is_aai"`
	IsMigrated       bool       `bun:"is_migrated" json:"is_migrated"`
	RunningSessionID *uuid.UUID `bun:"running_session_id,nullzero" json:"running_session_id,omitempty"`
	LastLoginAt      *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt        *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// PublicUser is the external-facing view of an account. The password
// hash never leaves the package through this shape.
type PublicUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Shortname   string    `json:"shortname"`
	Institution string    `json:"institution,omitempty"`
	UseCase     string    `json:"use_case,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsAAI       bool      `json:"is_aai"`
}

// Public strips the credential material from a user record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Shortname:   u.Shortname,
		Institution: u.Institution,
		UseCase:     u.UseCase,
		IsActive:    u.IsActive,
		IsAAI:       u.IsAAI,
	}
}

type userIdentity struct {
	id        string
	email     string
	shortname string
	aai       bool
}

func (a userIdentity) ID() string        { return a.id }
func (a userIdentity) Email() string     { return a.email }
func (a userIdentity) Shortname() string { return a.shortname }
func (a userIdentity) AAI() bool         { return a.aai }

var _ Identity = userIdentity{}

// AsIdentity adapts a user record to the Identity interface.
func (u *User) AsIdentity() Identity {
	return userIdentity{
		id:        u.ID.String(),
		email:     u.Email,
		shortname: u.Shortname,
		aai:       u.IsAAI,
	}
}
