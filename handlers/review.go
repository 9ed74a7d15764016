package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/andrewpaige1/nodebook-web/middleware"
	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/review"
	"github.com/andrewpaige1/nodebook-web/views"
)

func reviewCards(set *models.FlashcardSet) []review.Card {
	cards := make([]review.Card, len(set.Flashcards))
	for i, card := range set.Flashcards {
		cards[i] = review.Card{ID: card.PublicID, Term: card.Term, Definition: card.Definition}
	}
	return cards
}

// reviewCookie identifies an anonymous browser so its reviews stay its own.
const reviewCookie = "review_browser"

// reviewer names who owns a review: the signed-in user, or the browser for
// anonymous visitors. With create set, a browser without one gets a new cookie.
// An empty result matches no session.
func (db *DBHandler) reviewer(w http.ResponseWriter, r *http.Request, create bool) string {
	if userID := middleware.CurrentUserID(r.Context()); userID != 0 {
		return "user:" + strconv.FormatUint(uint64(userID), 10)
	}
	if c, err := r.Cookie(reviewCookie); err == nil && c.Value != "" {
		return "browser:" + c.Value
	}
	if !create {
		return ""
	}

	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     reviewCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		Secure:   db.Tokens.Secure(),
		SameSite: http.SameSiteLaxMode,
	})
	return "browser:" + key
}

// GET /study-set/{id}/flashcards always opens a fresh review, so leaving the
// screen and coming back starts over.
func (db *DBHandler) StartFlashcards(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("id")

	set, err := db.Sets.ByID(r.Context(), setID, middleware.CurrentUserID(r.Context()))
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	sessionID := db.Reviews.Start(set.PublicID, db.reviewer(w, r, true), reviewCards(set))
	http.Redirect(w, r, views.FlashcardsActionURL(set.PublicID, sessionID), http.StatusSeeOther)
}

// GET /study-set/{id}/flashcards/{session}
func (db *DBHandler) ShowFlashcards(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("id")
	sessionID := r.PathValue("session")

	set, err := db.Sets.ByID(r.Context(), setID, middleware.CurrentUserID(r.Context()))
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	var page views.FlashcardsPage
	err = db.Reviews.Update(sessionID, set.PublicID, db.reviewer(w, r, false), func(s *review.Session) {
		page = views.NewFlashcardsPage(set.Title, set.PublicID, sessionID, s)
	})
	if errors.Is(err, review.ErrSessionNotFound) {
		http.Redirect(w, r, "/study-set/"+set.PublicID+"/flashcards", http.StatusSeeOther)
		return
	}
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	db.render(w, r, http.StatusOK, "flashcards", "Flashcards", page)
}

// apply runs a review button against the session. Unknown actions report false.
func apply(s *review.Session, action string) bool {
	switch action {
	case "know":
		s.Know()
	case "learning":
		s.StillLearning()
	case "next":
		s.Advance(1)
	case "prev":
		s.Advance(-1)
	case string(review.ActionReviewToughTerms):
		s.ReviewToughTerms()
	case string(review.ActionReset):
		s.Reset()
	default:
		return false
	}
	return true
}

// POST /study-set/{id}/flashcards/{session}/{action}
func (db *DBHandler) FlashcardsAction(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("id")
	sessionID := r.PathValue("session")
	action := r.PathValue("action")

	var known, finished bool
	err := db.Reviews.Update(sessionID, setID, db.reviewer(w, r, false), func(s *review.Session) {
		wasFinished := s.Finished()
		known = apply(s, action)
		finished = !wasFinished && s.Finished()
	})
	if errors.Is(err, review.ErrSessionNotFound) {
		http.Redirect(w, r, "/study-set/"+setID+"/flashcards", http.StatusSeeOther)
		return
	}
	if err != nil {
		db.renderError(w, r, err)
		return
	}
	if !known {
		db.renderMessage(w, r, http.StatusBadRequest, "Unknown flashcard action")
		return
	}

	if finished {
		db.markStudied(r, setID)
	}

	http.Redirect(w, r, views.FlashcardsActionURL(setID, sessionID), http.StatusSeeOther)
}

// markStudied stamps the set when its owner finishes a pass. Other viewers
// leave the owner's history alone.
func (db *DBHandler) markStudied(r *http.Request, setID string) {
	viewerID := middleware.CurrentUserID(r.Context())
	set, err := db.Sets.ByID(r.Context(), setID, viewerID)
	if err != nil {
		db.Log.Errorw("FlashcardsAction: failed to load set", "publicID", setID, "error", err)
		return
	}
	if !set.OwnedBy(viewerID) {
		return
	}
	if err := db.Sets.MarkStudied(r.Context(), setID); err != nil {
		db.Log.Errorw("FlashcardsAction: failed to stamp last studied", "publicID", setID, "error", err)
	}
}
