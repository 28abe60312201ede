// Package auth implements the credential lifecycle for the clickr
// audience-response platform: signup, login, logout, password changes,
// and the request-authentication gate every protected operation routes
// through.
//
// Tokens:
//   - Tokens are stateless HS256 JWTs bound to the account id. Validity
//     is signature + expiry only; there is no server-side revocation
//     list, so Logout clears the client cookie but cannot invalidate
//     tokens already in the wild before they expire. If true revocation
//     is ever needed, add a short-lived denylist or move to server
//     tracked session ids.
//   - The signing secret is injected at construction and never mutated.
//     Without a secret the TokenService fails closed: it neither issues
//     nor validates anything.
//
// Identity:
//   - Accounts are keyed on the normalized email (lower-cased, with
//     provider-specific aliasing collapsed, see NormalizeEmail) plus a
//     short alphanumeric shortname. Uniqueness of both is enforced by
//     the storage layer; the service relies on that guarantee instead
//     of re-checking.
//
// Failures surface as go-errors values with stable text codes
// (INVALID_EMAIL, INVALID_LOGIN, UNAUTHORIZED, ...) so the API layer
// can map them to client-facing codes without leaking internals.
package auth
