package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes are the stable, machine-readable kinds the API layer maps
// to client-facing error codes. They mirror the platform's wire
// constants and must not change between releases.
const (
	TextCodeInvalidEmail      = "INVALID_EMAIL"
	TextCodeInvalidPassword   = "INVALID_PASSWORD"
	TextCodeInvalidShortname  = "INVALID_SHORTNAME"
	TextCodeEmailTaken        = "EMAIL_TAKEN"
	TextCodeShortnameTaken    = "SHORTNAME_TAKEN"
	TextCodeInvalidLogin      = "INVALID_LOGIN"
	TextCodeUnauthorized      = "UNAUTHORIZED"
	TextCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	TextCodeMissingSigningKey = "MISSING_SIGNING_KEY"
)

// ErrInvalidEmail is returned when an email fails syntax validation.
var ErrInvalidEmail = goerrors.New("invalid email address", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidEmail).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidPassword is returned when a password fails the length policy.
var ErrInvalidPassword = goerrors.New("invalid password", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidShortname is returned when a shortname is not 3-8 alphanumeric characters.
var ErrInvalidShortname = goerrors.New("invalid shortname", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidShortname).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailTaken is returned when signup collides with an existing email.
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrShortnameTaken is returned when signup collides with an existing shortname.
var ErrShortnameTaken = goerrors.New("shortname already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeShortnameTaken).
	WithCode(goerrors.CodeConflict)

// ErrInvalidLogin is the single outcome for both unknown email and wrong
// password. The two causes are deliberately indistinguishable to the caller.
var ErrInvalidLogin = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidLogin).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidToken is the single outcome for malformed, expired, and
// wrongly signed tokens. Collapsing them avoids handing an oracle to
// whoever is probing the verifier.
var ErrInvalidToken = goerrors.New("invalid authentication token", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthorized is returned by the RequireAuth gate when a request
// carries no valid authentication context.
var ErrUnauthorized = goerrors.New("authentication required", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrStoreUnavailable surfaces after the gateway's retry budget for
// transient storage failures is exhausted.
var ErrStoreUnavailable = goerrors.New("identity store unavailable", goerrors.CategoryOperation).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(goerrors.CodeInternal)

// ErrMissingSigningKey means the process has no signing secret. The
// token service fails closed rather than running with an empty key.
var ErrMissingSigningKey = goerrors.New("token signing key is not configured", goerrors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(goerrors.CodeInternal)

// ErrNoEmptyString rejects empty plaintext passwords before hashing.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the internal mismatch result from the
// hasher. The authenticator maps it to ErrInvalidLogin before it ever
// reaches a caller.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidLogin).
	WithCode(goerrors.CodeUnauthorized)

// TextCode extracts the stable kind from any error produced by this
// package, or "" if the error carries none.
func TextCode(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

// IsValidationError reports whether err is one of the credential
// validation failures (email, password, shortname).
func IsValidationError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryValidation
}

// IsConflictError reports whether err is a uniqueness conflict.
func IsConflictError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryConflict
}

// IsUnauthorizedError reports whether err is an authentication failure
// (bad credentials, bad token, or missing auth context).
func IsUnauthorizedError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuth
}
