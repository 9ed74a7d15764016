package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/auth"
	"github.com/andrewpaige1/nodebook-web/middleware"
	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/review"
	"github.com/andrewpaige1/nodebook-web/studyset"
	"github.com/andrewpaige1/nodebook-web/views"
)

// DBHandler carries what the page and API handlers share.
type DBHandler struct {
	*gorm.DB
	Sets    *studyset.Service
	Reviews *review.Store
	Views   *views.Renderer
	Tokens  *auth.Tokens
	Log     *zap.SugaredLogger
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, studyset.ErrNotFound),
		errors.Is(err, studyset.ErrFolderNotFound),
		errors.Is(err, review.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, studyset.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, studyset.ErrInvalidInput),
		errors.Is(err, studyset.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// messageFor is the plain message shown for a failed page.
func messageFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Study set not found"
	case http.StatusForbidden:
		return "You don't have access to this study set"
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusUnauthorized:
		return "Please log in to continue"
	}
	return "Something went wrong"
}

func (db *DBHandler) page(r *http.Request, title string, data interface{}) views.Page {
	return views.Page{
		Title:  title,
		Navbar: views.NewNavbar(middleware.CurrentUser(r.Context()), r.URL.Path, r.URL.Query()),
		Data:   data,
	}
}

func (db *DBHandler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	if err := db.Views.Render(w, status, name, db.page(r, title, data)); err != nil {
		db.Log.Errorw("render: template failed", "page", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// renderError shows the plain error page for err.
func (db *DBHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		db.Log.Errorw("renderError: request failed", "path", r.URL.Path, "error", err)
	}
	db.renderMessage(w, r, status, messageFor(status))
}

func (db *DBHandler) renderMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	db.render(w, r, status, "error", "Error", map[string]interface{}{"Message": message})
}

// requireUser sends anonymous visitors to the login prompt on the current page.
func (db *DBHandler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := middleware.CurrentUser(r.Context())
	if user != nil {
		return user, true
	}

	if r.Method == http.MethodGet {
		http.Redirect(w, r, r.URL.Path+"?"+url.Values{"auth": {"login"}}.Encode(), http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/?auth=login", http.StatusSeeOther)
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
