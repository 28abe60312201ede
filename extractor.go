package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

// TokenExtractor locates a candidate token string on an inbound
// request. Extractors are pure and total: anything other than a
// well-formed candidate yields "", never an error or a panic.
type TokenExtractor func(c router.Context) string

// TokenFromCookie returns an extractor reading the named cookie.
func TokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) string {
		return strings.TrimSpace(c.Cookies(name))
	}
}

// TokenFromHeader returns an extractor reading a "<scheme> <token>"
// header, e.g. "Authorization: Bearer eyJ...".
func TokenFromHeader(header, authScheme string) TokenExtractor {
	return func(c router.Context) string {
		raw := c.Header(header)
		scheme := strings.TrimSpace(authScheme)
		if scheme == "" {
			return ""
		}
		l := len(scheme)
		if len(raw) > l+1 && strings.EqualFold(raw[:l], scheme) {
			return strings.TrimSpace(raw[l:])
		}
		return ""
	}
}

// DefaultExtractors is the platform's extraction order: the token
// cookie wins over the Authorization header. The order is the contract;
// keep it visible here rather than burying it in lookup strings.
func DefaultExtractors(cfg Config) []TokenExtractor {
	return []TokenExtractor{
		TokenFromCookie(cfg.GetCookieName()),
		TokenFromHeader(router.HeaderAuthorization, cfg.GetAuthScheme()),
	}
}

// ExtractRawToken runs the extractors in order and returns the first
// candidate found, or "" when no channel carries one. It does not check
// signature or expiry; callers still have to run the candidate through
// a TokenValidator.
func ExtractRawToken(c router.Context, extractors []TokenExtractor) string {
	for _, extract := range extractors {
		if raw := extract(c); raw != "" {
			return raw
		}
	}
	return ""
}

// GetToken locates a candidate token and screens it through the
// validator: garbage in a cookie or header behaves exactly like
// absence, so a bad candidate in one channel never shadows a valid one
// in the next. Returns "" when no channel carries a usable token.
func GetToken(c router.Context, validator TokenValidator, extractors []TokenExtractor) string {
	raw, _ := screenToken(c, validator, extractors)
	return raw
}

// screenToken walks the extractors in order and returns the first
// candidate the validator accepts, together with its claims.
func screenToken(c router.Context, validator TokenValidator, extractors []TokenExtractor) (string, AuthClaims) {
	for _, extract := range extractors {
		raw := extract(c)
		if raw == "" {
			continue
		}
		claims, err := validator.Validate(raw)
		if err != nil {
			continue
		}
		return raw, claims
	}
	return "", nil
}
