package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	logger          Logger
}

// NewTokenService creates a new TokenService instance. tokenExpiration
// is the token time-to-live in hours. An empty signingKey produces a
// service that fails closed: Issue and Validate both error.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          logger,
	}
}

// Issue creates a signed token binding the identity's id to an expiry.
func (ts *TokenServiceImpl) Issue(identity Identity) (string, error) {
	if identity == nil {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl())),
		},
		UID:    identity.ID(),
		Handle: identity.Shortname(),
		AAI:    identity.AAI(),
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrMissingSigningKey
	}
	if claims == nil {
		return "", ErrInvalidToken
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		ts.logger.Error("TokenService failed to sign claims: %v", err)
		return "", ErrMissingSigningKey
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured
// claims. Malformed input, a wrong signature, and an expired token all
// collapse to the same ErrInvalidToken; callers learn nothing about
// which check failed.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	if len(ts.signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (ts *TokenServiceImpl) ttl() time.Duration {
	if ts.tokenExpiration <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(ts.tokenExpiration) * time.Hour
}

var _ TokenService = (*TokenServiceImpl)(nil)
