package auth

import (
	"strings"
)

// Canonicalizer rewrites the local part of an address according to one
// provider's aliasing convention. Canonicalizers must be pure and total.
type Canonicalizer func(local string) string

// providerCanonicalizers maps a provider domain to its aliasing rule.
// The map keys are compared against the already lower-cased domain.
// Gmail ignores dots in the local part, so stripping them yields the
// canonical mailbox. Other providers keep dots significant and stay
// out of this table.
var providerCanonicalizers = map[string]Canonicalizer{
	"gmail.com":      stripLocalDots,
	"googlemail.com": stripLocalDots,
}

func stripLocalDots(local string) string {
	return strings.ReplaceAll(local, ".", "")
}

// NormalizeEmail canonicalizes an address for uniqueness and lookup:
// the whole address is lower-cased, then the provider table collapses
// aliasing the provider considers insignificant. Inputs that do not
// look like an address are returned lower-cased and trimmed, leaving
// rejection to ValidateEmail.
//
// Every comparison against stored identities must go through this
// function; the store only ever sees normalized addresses.
func NormalizeEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))

	at := strings.LastIndex(normalized, "@")
	if at <= 0 || at == len(normalized)-1 {
		return normalized
	}

	local, domain := normalized[:at], normalized[at+1:]
	if canonicalize, ok := providerCanonicalizers[domain]; ok {
		local = canonicalize(local)
	}

	return local + "@" + domain
}
