package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/middleware"
	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/studyset"
)

// /api/sets/{setID}

func (db *DBHandler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	viewerID := middleware.CurrentUserID(r.Context())

	set, err := db.Sets.ByID(r.Context(), setID, viewerID)
	if err != nil {
		db.Log.Infow("GetSetByID: lookup failed", "publicID", setID, "error", err)
		http.Error(w, messageFor(statusFor(err)), statusFor(err))
		return
	}

	type SetResponse struct {
		*models.FlashcardSet
		IsOwner bool `json:"IsOwner"`
	}

	writeJSON(w, http.StatusOK, SetResponse{
		FlashcardSet: set,
		IsOwner:      set.OwnedBy(viewerID),
	})
}

// POST /api/sets
func (db *DBHandler) CreateFlashCardSet(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input studyset.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	set, err := db.Sets.Create(r.Context(), user.ID, input)
	if err != nil {
		db.Log.Infow("CreateFlashCardSet: create failed", "userID", user.ID, "error", err)
		http.Error(w, messageFor(statusFor(err)), statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

func (db *DBHandler) DeleteSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := db.Sets.Delete(r.Context(), user.ID, setID); err != nil {
		db.Log.Infow("DeleteSetByID: delete failed", "publicID", setID, "error", err)
		http.Error(w, messageFor(statusFor(err)), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sets/{setID}/combine
func (db *DBHandler) CombineSets(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	type CombineRequest struct {
		Title  string   `json:"title"`
		SetIDs []string `json:"setIDs"`
	}
	var req CombineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	combined, err := db.Sets.Combine(r.Context(), user.ID, setID, studyset.CombineInput{
		Title:    req.Title,
		OtherIDs: req.SetIDs,
	})
	if err != nil {
		db.Log.Infow("CombineSets: combine failed", "publicID", setID, "error", err)
		http.Error(w, messageFor(statusFor(err)), statusFor(err))
		return
	}

	db.Log.Infow("CombineSets: created combined set", "publicID", combined.PublicID, "userID", user.ID)
	writeJSON(w, http.StatusCreated, combined)
}

func (db *DBHandler) GetSetsForUser(w http.ResponseWriter, r *http.Request) {
	nickname := r.PathValue("nickname")

	var user models.User
	if err := db.Where("nickname = ?", nickname).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		db.Log.Errorw("GetSetsForUser: user lookup failed", "nickname", nickname, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sets, err := db.Sets.ForUser(r.Context(), user.ID, middleware.CurrentUserID(r.Context()))
	if err != nil {
		db.Log.Errorw("GetSetsForUser: failed to fetch sets", "userID", user.ID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if sets == nil {
		sets = []models.FlashcardSet{}
	}

	writeJSON(w, http.StatusOK, sets)
}
