package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/nodebook-web/config"
)

var testConfig = config.AuthConfig{
	Secret:       "test-secret-0123456789",
	Issuer:       "nodebook",
	Audience:     "nodebook-web",
	CookieDomain: "example.com",
	TokenTTL:     time.Hour,
}

func TestCreateToken(t *testing.T) {
	tokens := NewTokens(testConfig, true)

	tokenString, err := tokens.CreateToken("local|abc", "alice")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testConfig.Secret), nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("nodebook"),
		jwt.WithAudience("nodebook-web"),
	)
	require.NoError(t, err)

	subject, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "local|abc", subject)
	assert.Equal(t, "alice", claims["nickname"])

	expires, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires.Time, time.Minute)
}

func TestCookies(t *testing.T) {
	tokens := NewTokens(testConfig, true)

	rec := httptest.NewRecorder()
	require.NoError(t, tokens.SetCookie(rec, "local|abc", "alice"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "example.com", cookies[0].Domain)
	assert.NotEmpty(t, cookies[0].Value)

	rec = httptest.NewRecorder()
	tokens.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("", "anything"), ErrInvalidCredentials)
}

func TestLocalSubject(t *testing.T) {
	assert.Equal(t, "local|xyz", LocalSubject("xyz"))
}
