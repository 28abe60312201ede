package auth

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SimpleConfig is a value implementation of Config. Zero values fall
// back to sensible defaults everywhere except the signing key, which
// stays empty so the token service fails closed.
type SimpleConfig struct {
	SigningKey      string
	TokenExpiration int
	CookieName      string
	AuthScheme      string
	Issuer          string
	PasswordCost    int
}

func (c SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 24
	}
	return c.TokenExpiration
}

func (c SimpleConfig) GetCookieName() string {
	if c.CookieName == "" {
		return "jwt"
	}
	return c.CookieName
}

func (c SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c SimpleConfig) GetIssuer() string { return c.Issuer }

func (c SimpleConfig) GetPasswordCost() int {
	if c.PasswordCost <= 0 {
		return DefaultPasswordCost
	}
	return c.PasswordCost
}

var _ Config = SimpleConfig{}

// NewConfigFromEnv builds a SimpleConfig from the environment. A .env
// file in the working directory is loaded first when present; real
// environment variables win over it. There is no default signing key.
//
// Recognized variables:
//
//	APP_SECRET        token signing key
//	TOKEN_TTL_HOURS   token and cookie lifetime in hours
//	AUTH_COOKIE_NAME  token cookie name
//	AUTH_SCHEME       Authorization header scheme
//	AUTH_ISSUER       iss claim on issued tokens
//	BCRYPT_COST       password hashing cost
func NewConfigFromEnv() SimpleConfig {
	godotenv.Load()

	return SimpleConfig{
		SigningKey:      os.Getenv("APP_SECRET"),
		TokenExpiration: envInt("TOKEN_TTL_HOURS", 0),
		CookieName:      os.Getenv("AUTH_COOKIE_NAME"),
		AuthScheme:      os.Getenv("AUTH_SCHEME"),
		Issuer:          os.Getenv("AUTH_ISSUER"),
		PasswordCost:    envInt("BCRYPT_COST", 0),
	}
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
