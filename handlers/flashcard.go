package handlers

import (
	"net/http"

	"github.com/andrewpaige1/nodebook-web/middleware"
	"github.com/andrewpaige1/nodebook-web/models"
)

// GET /api/sets/{setID}/flashcards
func (db *DBHandler) GetFlashcardsForSet(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")

	set, err := db.Sets.ByID(r.Context(), setID, middleware.CurrentUserID(r.Context()))
	if err != nil {
		http.Error(w, messageFor(statusFor(err)), statusFor(err))
		return
	}

	flashcards := set.Flashcards
	if flashcards == nil {
		flashcards = []models.Flashcard{}
	}
	writeJSON(w, http.StatusOK, flashcards)
}
