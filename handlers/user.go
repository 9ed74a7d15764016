package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/auth"
	"github.com/andrewpaige1/nodebook-web/middleware"
	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/views"
)

type signupForm struct {
	Nickname string `validate:"required,alphanum,min=3,max=100"`
	Name     string `validate:"max=100"`
	Email    string `validate:"omitempty,email,max=200"`
	Password string `validate:"required,min=8,max=72"`
}

var formValidator = validator.New()

// authFailed re-renders the page with the given auth dialog open.
func (db *DBHandler) authFailed(w http.ResponseWriter, r *http.Request, status int, prompt views.AuthPrompt, message string) {
	r.URL.Path = "/"
	r.URL.RawQuery = "auth=" + string(prompt)
	db.renderMessage(w, r, status, message)
}

// POST /login
func (db *DBHandler) Login(w http.ResponseWriter, r *http.Request) {
	nickname := strings.TrimSpace(r.PostFormValue("nickname"))
	password := r.PostFormValue("password")

	var user models.User
	err := db.Where("nickname = ?", nickname).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		db.Log.Errorw("Login: user lookup failed", "nickname", nickname, "error", err)
		db.renderMessage(w, r, http.StatusInternalServerError, messageFor(http.StatusInternalServerError))
		return
	}
	if err != nil || auth.CheckPassword(user.PasswordHash, password) != nil {
		db.Log.Infow("Login: invalid credentials", "nickname", nickname)
		db.authFailed(w, r, http.StatusUnauthorized, views.PromptLogin, "Invalid nickname or password")
		return
	}

	if err := db.Tokens.SetCookie(w, user.Subject, user.Nickname); err != nil {
		db.Log.Errorw("Login: token generation error", "error", err)
		db.renderMessage(w, r, http.StatusInternalServerError, messageFor(http.StatusInternalServerError))
		return
	}

	db.Log.Infow("Login: user logged in", "nickname", user.Nickname)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /signup
func (db *DBHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form := signupForm{
		Nickname: strings.TrimSpace(r.PostFormValue("nickname")),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if err := formValidator.Struct(form); err != nil {
		db.authFailed(w, r, http.StatusBadRequest, views.PromptSignup,
			"Pick a nickname of letters and digits and a password of at least 8 characters")
		return
	}

	var existing int64
	if err := db.Model(&models.User{}).Where("nickname = ?", form.Nickname).Count(&existing).Error; err != nil {
		db.Log.Errorw("Signup: nickname lookup failed", "error", err)
		db.renderMessage(w, r, http.StatusInternalServerError, messageFor(http.StatusInternalServerError))
		return
	}
	if existing > 0 {
		db.authFailed(w, r, http.StatusConflict, views.PromptSignup, "That nickname is already taken")
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		db.Log.Errorw("Signup: password hashing failed", "error", err)
		db.renderMessage(w, r, http.StatusInternalServerError, messageFor(http.StatusInternalServerError))
		return
	}
	publicID, err := gonanoid.New()
	if err != nil {
		db.renderMessage(w, r, http.StatusInternalServerError, messageFor(http.StatusInternalServerError))
		return
	}

	user := models.User{
		Subject:      auth.LocalSubject(publicID),
		Nickname:     form.Nickname,
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		db.Log.Errorw("Signup: database creation error", "error", err)
		db.renderMessage(w, r, http.StatusInternalServerError, messageFor(http.StatusInternalServerError))
		return
	}

	if err := db.Tokens.SetCookie(w, user.Subject, user.Nickname); err != nil {
		db.Log.Errorw("Signup: token generation error", "error", err)
		db.renderMessage(w, r, http.StatusInternalServerError, messageFor(http.StatusInternalServerError))
		return
	}

	db.Log.Infow("Signup: user created", "nickname", user.Nickname)
	http.Redirect(w, r, views.ProfileHref(&user), http.StatusSeeOther)
}

// POST /logout
func (db *DBHandler) Logout(w http.ResponseWriter, r *http.Request) {
	db.Tokens.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// profileUser loads the user named in the path.
func (db *DBHandler) profileUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	nickname := r.PathValue("nickname")

	var user models.User
	err := db.Where("nickname = ?", nickname).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		db.renderMessage(w, r, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		db.renderError(w, r, err)
		return nil, false
	}
	return &user, true
}

// GET /users/{nickname} shows achievements to the owner; everyone else lands
// on the study sets tab.
func (db *DBHandler) ProfileAchievements(w http.ResponseWriter, r *http.Request) {
	profile, ok := db.profileUser(w, r)
	if !ok {
		return
	}
	viewer := middleware.CurrentUser(r.Context())
	if viewer == nil || viewer.ID != profile.ID {
		http.Redirect(w, r, views.ProfileHref(profile)+"/study-sets", http.StatusSeeOther)
		return
	}

	stats, err := db.Sets.Stats(r.Context(), profile.ID)
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	db.render(w, r, http.StatusOK, "profile_achievements", profile.DisplayName(), map[string]interface{}{
		"Layout": views.NewProfileLayout(viewer, profile, r.URL.Path),
		"Stats":  stats,
	})
}

// GET /users/{nickname}/study-sets
func (db *DBHandler) ProfileStudySets(w http.ResponseWriter, r *http.Request) {
	profile, ok := db.profileUser(w, r)
	if !ok {
		return
	}
	viewer := middleware.CurrentUser(r.Context())

	sets, err := db.Sets.ForUser(r.Context(), profile.ID, middleware.CurrentUserID(r.Context()))
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	db.render(w, r, http.StatusOK, "profile_sets", profile.DisplayName(), map[string]interface{}{
		"Layout": views.NewProfileLayout(viewer, profile, r.URL.Path),
		"Sets":   sets,
	})
}

// GET /users/{nickname}/folders
func (db *DBHandler) ProfileFolders(w http.ResponseWriter, r *http.Request) {
	profile, ok := db.profileUser(w, r)
	if !ok {
		return
	}
	viewer := middleware.CurrentUser(r.Context())

	folders, err := db.Sets.FoldersForUser(r.Context(), profile.ID, middleware.CurrentUserID(r.Context()))
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	db.render(w, r, http.StatusOK, "profile_folders", profile.DisplayName(), map[string]interface{}{
		"Layout":  views.NewProfileLayout(viewer, profile, r.URL.Path),
		"Folders": folders,
	})
}
