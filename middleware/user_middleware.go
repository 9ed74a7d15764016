package middleware

import (
	"context"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/utils"
)

type contextKey string

const userKey contextKey = "user"

// WithUser attaches the signed-in user to the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// CurrentUserID is 0 for anonymous requests.
func CurrentUserID(ctx context.Context) uint {
	if user := CurrentUser(ctx); user != nil {
		return user.ID
	}
	return 0
}

// SyncUser ensures the token subject exists in the DB and attaches it to context.
// Anonymous requests pass through untouched.
func SyncUser(db *gorm.DB, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := utils.GetSubject(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			nickname := ""
			claims := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if customClaims, ok := claims.CustomClaims.(*CustomClaims); ok && customClaims != nil {
				nickname = customClaims.Nickname
			}

			var user models.User
			result := db.Where("subject = ?", subject).Limit(1).Find(&user)
			if result.Error != nil {
				log.Errorw("SyncUser: lookup failed", "subject", subject, "error", result.Error)
				http.Error(w, "Failed to load user", http.StatusInternalServerError)
				return
			}

			if result.RowsAffected == 0 {
				// Tokens minted by an external identity provider have no local row yet.
				if nickname == "" {
					suffix, err := gonanoid.New(8)
					if err != nil {
						http.Error(w, "Failed to create user", http.StatusInternalServerError)
						return
					}
					nickname = "user-" + suffix
				}
				user = models.User{Subject: subject, Nickname: nickname}
				if err := db.Create(&user).Error; err != nil {
					log.Errorw("SyncUser: database creation error", "subject", subject, "error", err)
					http.Error(w, "Failed to create user", http.StatusInternalServerError)
					return
				}
				log.Infow("SyncUser: created new user", "nickname", user.Nickname)
			} else if nickname != "" && user.Nickname != nickname {
				user.Nickname = nickname
				if err := db.Save(&user).Error; err != nil {
					log.Errorw("SyncUser: database update error", "subject", subject, "error", err)
					http.Error(w, "Failed to update user", http.StatusInternalServerError)
					return
				}
				log.Infow("SyncUser: updated user nickname", "nickname", user.Nickname)
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
		})
	}
}
