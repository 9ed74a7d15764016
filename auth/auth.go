package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/andrewpaige1/nodebook-web/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the cookie carrying the session token.
const CookieName = "auth_token"

var ErrInvalidCredentials = errors.New("invalid credentials")

// Tokens issues session tokens and manages the session cookie.
type Tokens struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	domain   string
	secure   bool
}

func NewTokens(cfg config.AuthConfig, secure bool) *Tokens {
	return &Tokens{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TokenTTL,
		domain:   cfg.CookieDomain,
		secure:   secure,
	}
}

// Secure reports whether cookies are restricted to HTTPS.
func (t *Tokens) Secure() bool {
	return t.secure
}

// CreateToken signs an HS256 token for the subject.
func (t *Tokens) CreateToken(subject, nickname string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"iss":      t.issuer,
			"aud":      []string{t.audience},
			"sub":      subject,
			"nickname": nickname,
			"iat":      now.Unix(),
			"exp":      now.Add(t.ttl).Unix(),
		})

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// SetCookie stores a fresh token for the subject in the session cookie.
func (t *Tokens) SetCookie(w http.ResponseWriter, subject, nickname string) error {
	tokenString, err := t.CreateToken(subject, nickname)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Path:     "/",
		Domain:   t.domain,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(t.ttl.Seconds()),
	})
	return nil
}

func (t *Tokens) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   t.domain,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword returns ErrInvalidCredentials when the password does not match.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// LocalSubject is the token subject for accounts created by the sign-up form.
func LocalSubject(publicID string) string {
	return "local|" + publicID
}
