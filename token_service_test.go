package auth_test

import (
	"testing"
	"time"

	auth "github.com/clickrhq/go-clickr-auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testIdentity() auth.Identity {
	user := &auth.User{
		ID:        uuid.New(),
		Email:     "abc@def.ch",
		Shortname: "hans",
	}
	return user.AsIdentity()
}

func TestTokenRoundTrip(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-secret"), 1, "clickr", nil)

	identity := testIdentity()

	token, err := ts.Issue(identity)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, identity.ID(), claims.UserID())
	assert.Equal(t, identity.ID(), claims.Subject())
	assert.Equal(t, "hans", claims.Shortname())
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expires(), 5*time.Second)
}

func TestIssueCarriesFederatedFlag(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-secret"), 1, "", nil)

	aaiUser := &auth.User{
		ID:        uuid.New(),
		Email:     "abc@uzh.ch",
		Shortname: "hans",
		IsAAI:     true,
	}

	token, err := ts.Issue(aaiUser.AsIdentity())
	assert.NoError(t, err)

	claims, err := ts.Validate(token)
	assert.NoError(t, err)

	jwtClaims, ok := claims.(*auth.JWTClaims)
	assert.True(t, ok)
	assert.True(t, jwtClaims.AAI)

	localToken, err := ts.Issue(testIdentity())
	assert.NoError(t, err)

	localClaims, err := ts.Validate(localToken)
	assert.NoError(t, err)
	assert.False(t, localClaims.(*auth.JWTClaims).AAI)
}

func TestIssueNilIdentity(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-secret"), 1, "", nil)

	_, err := ts.Issue(nil)
	assert.Error(t, err)
}

func TestFailClosedOnEmptySigningKey(t *testing.T) {
	ts := auth.NewTokenService(nil, 1, "", nil)

	_, err := ts.Issue(testIdentity())
	assert.ErrorIs(t, err, auth.ErrMissingSigningKey)

	_, err = ts.Validate("whatever")
	assert.ErrorIs(t, err, auth.ErrMissingSigningKey)
}

func TestValidateFailuresCollapse(t *testing.T) {
	secret := []byte("test-secret")
	ts := auth.NewTokenService(secret, 1, "clickr", nil)

	expired, err := ts.SignClaims(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "clickr",
			Subject:   "some-user",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	assert.NoError(t, err)

	otherService := auth.NewTokenService([]byte("other-secret"), 1, "clickr", nil)
	foreign, err := otherService.Issue(testIdentity())
	assert.NoError(t, err)

	wrongIssuer, err := auth.NewTokenService(secret, 1, "someone-else", nil).Issue(testIdentity())
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Expired token", token: expired},
		{name: "Wrong signature", token: foreign},
		{name: "Wrong issuer", token: wrongIssuer},
		{name: "Malformed token", token: "not.a.jwt"},
		{name: "Empty string", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ts.Validate(tt.token)
			assert.Nil(t, claims)

			// Every rejection collapses to one kind: the error carries no
			// hint of which check failed.
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestValidateRejectsWrongAlgorithm(t *testing.T) {
	ts := auth.NewTokenService([]byte("test-secret"), 1, "", nil)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "some-user"},
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = ts.Validate(unsigned)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestClaimsAccessors(t *testing.T) {
	t.Run("UID wins over subject", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
			UID:              "uid-id",
		}
		assert.Equal(t, "uid-id", claims.UserID())
	})

	t.Run("Falls back to subject", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
		}
		assert.Equal(t, "subject-id", claims.UserID())
	})

	t.Run("Zero times when unset", func(t *testing.T) {
		claims := &auth.JWTClaims{}
		assert.True(t, claims.Expires().IsZero())
		assert.True(t, claims.IssuedAt().IsZero())
	})
}
