package handlers

import (
	"net/http"
	"strings"

	"github.com/andrewpaige1/nodebook-web/studyset"
	"github.com/andrewpaige1/nodebook-web/views"
)

// POST /folders
func (db *DBHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}

	_, err := db.Sets.CreateFolder(r.Context(), user.ID, studyset.FolderInput{
		Name: strings.TrimSpace(r.PostFormValue("name")),
	})
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			db.renderMessage(w, r, http.StatusBadRequest, "A folder needs a name of at most 100 characters")
			return
		}
		db.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, views.ProfileHref(user)+"/folders", http.StatusSeeOther)
}

// POST /folders/add
func (db *DBHandler) AddSetToFolder(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}

	setID := r.PostFormValue("set")
	if err := db.Sets.AddToFolder(r.Context(), user.ID, r.PostFormValue("folder"), setID); err != nil {
		db.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/study-set/"+setID, http.StatusSeeOther)
}
