package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"go.uber.org/zap"

	"github.com/andrewpaige1/nodebook-web/auth"
	"github.com/andrewpaige1/nodebook-web/config"
)

// CustomClaims carries the profile fields we read from the session token.
type CustomClaims struct {
	Nickname string `json:"nickname"`
}

func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken validates the session token from the Authorization header
// or the session cookie. Requests without a token pass through anonymously.
func EnsureValidToken(cfg config.AuthConfig, tokens *auth.Tokens, log *zap.SugaredLogger) (func(http.Handler) http.Handler, error) {
	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return []byte(cfg.Secret), nil
		},
		validator.HS256,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Infow("EnsureValidToken: rejected token", "path", r.URL.Path, "error", err)

		// A stale cookie on a page request is dropped and the page retried anonymously.
		if _, cookieErr := r.Cookie(auth.CookieName); cookieErr == nil && !strings.HasPrefix(r.URL.Path, "/api/") {
			tokens.ClearCookie(w)
			http.Redirect(w, r, retryTarget(r), http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Failed to validate JWT."}`))
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
			jwtmiddleware.AuthHeaderTokenExtractor,
			jwtmiddleware.CookieTokenExtractor(auth.CookieName),
		)),
	)

	return middleware.CheckJWT, nil
}

// retryTarget is where a request with a stale cookie is sent after the cookie
// is cleared. Reads retry the same URL; form posts go back to the page they
// came from on this host, or home.
func retryTarget(r *http.Request) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return r.URL.RequestURI()
	}
	referer, err := url.Parse(r.Referer())
	if err != nil || !strings.HasPrefix(referer.Path, "/") || (referer.Host != "" && referer.Host != r.Host) {
		return "/"
	}
	return referer.RequestURI()
}
