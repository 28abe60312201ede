package auth

import (
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// LoginPayload is the request body for the login route.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RouteAuthenticator binds the credential lifecycle to HTTP routes. The
// token travels on an HTTPOnly cookie; the Authorization header is the
// fallback channel for non-browser clients.
type RouteAuthenticator struct {
	auth           Authenticator
	validator      TokenValidator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
	ActivitySink   ActivitySink
	ErrorHandler   func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, validator TokenValidator, cfg Config) (*RouteAuthenticator, error) {
	if validator == nil {
		return nil, errors.New("http authenticator requires a token validator", errors.CategoryInternal)
	}

	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	a := &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		validator:      validator,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Signup creates an account from the request body and returns its
// public view. Validation and conflict errors pass through with their
// text codes intact.
func (a *RouteAuthenticator) Signup(ctx router.Context) error {
	payload := SignupPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "malformed signup payload").
			WithCode(errors.CodeBadRequest))
	}

	user, err := a.auth.Signup(ctx.Context(), payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, user.Public())
}

// Login authenticates the request body credentials and, on success,
// writes the token cookie. The response body never carries more than
// the account id; the token lives on the cookie.
func (a *RouteAuthenticator) Login(ctx router.Context) error {
	payload := LoginPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "malformed login payload").
			WithCode(errors.CodeBadRequest))
	}

	result, err := a.auth.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("Login error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	a.setCookieToken(ctx, result.Token, a.cookieDuration)

	return ctx.JSON(http.StatusOK, map[string]string{
		"id": result.UserID.String(),
	})
}

// Logout expires the token cookie. It always reports success: clearing
// an absent cookie and clearing a present one look identical, and a
// token that was already invalid has nothing left to invalidate.
func (a *RouteAuthenticator) Logout(ctx router.Context) error {
	a.cookieDel(ctx, a.cfg.GetCookieName())

	event := ActivityEvent{EventType: ActivityEventLogout, OccurredAt: time.Now(), Metadata: map[string]any{}}
	if claims, ok := GetClaims(ctx.Context()); ok {
		event.UserID = claims.UserID()
	}
	if err := normalizeActivitySink(a.ActivitySink).Record(ctx.Context(), event); err != nil {
		a.Logger.Warn("activity sink record error: %v", err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}

// Protected gates a route on a valid token. The claims land on the
// request context for downstream handlers; a missing or invalid token
// short-circuits with UNAUTHORIZED before the handler runs.
func (a *RouteAuthenticator) Protected() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			_, claims := screenToken(ctx, a.validator, DefaultExtractors(a.cfg))
			if claims == nil {
				return a.ErrorHandler(ctx, ErrUnauthorized)
			}

			ctx.Locals(ClaimsContextKey, claims)
			ctx.SetContext(WithClaimsContext(ctx.Context(), claims))

			return hf(ctx)
		}
	}
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetCookieName(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Route error handler: %s text_code=%s details=%s",
		richErr.Message,
		richErr.TextCode,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return c.JSON(status, map[string]string{
		"message":   richErr.Message,
		"text_code": richErr.TextCode,
	})
}
