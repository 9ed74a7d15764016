package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/auth"
	"github.com/andrewpaige1/nodebook-web/config"
	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/testutil"
)

var testAuth = config.AuthConfig{
	Secret:   "test-secret-0123456789",
	Issuer:   "nodebook",
	Audience: "nodebook-web",
	TokenTTL: time.Hour,
}

// chain returns the auth middleware around a handler that records the user.
func chain(t *testing.T, db *gorm.DB, seen **models.User) http.Handler {
	t.Helper()

	log := zap.NewNop().Sugar()
	tokens := auth.NewTokens(testAuth, false)
	ensure, err := EnsureValidToken(testAuth, tokens, log)
	require.NoError(t, err)

	return ensure(SyncUser(db, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = CurrentUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))
}

func tokenFor(t *testing.T, subject, nickname string) string {
	t.Helper()
	token, err := auth.NewTokens(testAuth, false).CreateToken(subject, nickname)
	require.NoError(t, err)
	return token
}

func TestAnonymousPassesThrough(t *testing.T) {
	db := testutil.OpenDB(t)
	var seen *models.User
	h := chain(t, db, &seen)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, seen)
}

func TestRetryTarget(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		referer string
		want    string
	}{
		{"get retries same url", http.MethodGet, "/study-set/x?auth=login", "", "/study-set/x?auth=login"},
		{"head retries same url", http.MethodHead, "/users/ann", "", "/users/ann"},
		{"post uses referer", http.MethodPost, "/logout", "http://example.com/settings", "/settings"},
		{"post keeps referer query", http.MethodPost, "/folders", "http://example.com/users/ann?dialog=folder", "/users/ann?dialog=folder"},
		{"post without referer", http.MethodPost, "/study-set/x/delete", "", "/"},
		{"post from another host", http.MethodPost, "/study-set/x/delete", "http://evil.test/phish", "/"},
		{"delete without referer", http.MethodDelete, "/study-set/x", "", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			assert.Equal(t, tt.want, retryTarget(req))
		})
	}
}

func TestSyncUser(t *testing.T) {
	db := testutil.OpenDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	var seen *models.User
	h := chain(t, db, &seen)

	t.Run("cookie resolves existing user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tokenFor(t, alice.Subject, "alice")})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.NotNil(t, seen)
		assert.Equal(t, alice.ID, seen.ID)
	})

	t.Run("bearer token creates unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sets/x", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, "oauth|42", "bob"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.NotNil(t, seen)
		assert.Equal(t, "bob", seen.Nickname)

		var count int64
		require.NoError(t, db.Model(&models.User{}).Where("subject = ?", "oauth|42").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("nickname change is saved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, "oauth|42", "robert"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		var user models.User
		require.NoError(t, db.Where("subject = ?", "oauth|42").First(&user).Error)
		assert.Equal(t, "robert", user.Nickname)
	})
}

func TestInvalidToken(t *testing.T) {
	db := testutil.OpenDB(t)
	var seen *models.User
	h := chain(t, db, &seen)

	t.Run("api gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sets/x", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Failed to validate JWT."}`, rec.Body.String())
	})

	t.Run("page clears stale cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/study-set/x?auth=login", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/study-set/x?auth=login", rec.Header().Get("Location"))
	})

	t.Run("form post goes back to the referring page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/study-set/x/flashcards/abc/know", nil)
		req.Header.Set("Referer", "http://example.com/study-set/x/flashcards/abc")
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/study-set/x/flashcards/abc", rec.Header().Get("Location"))
		require.Len(t, rec.Result().Cookies(), 1)
		assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
	})

	assert.Nil(t, seen)
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	h := RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
