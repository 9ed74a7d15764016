package handlers

import (
	"bytes"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/andrewpaige1/nodebook-web/middleware"
	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/studyset"
	"github.com/andrewpaige1/nodebook-web/views"
)

const homeSetLimit = 20

// GET /
func (db *DBHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		sets []models.FlashcardSet
		err  error
	)
	if user != nil && query == "" {
		sets, err = db.Sets.ForUser(r.Context(), user.ID, user.ID)
	} else {
		sets, err = db.Sets.Public(r.Context(), query, homeSetLimit)
	}
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	db.render(w, r, http.StatusOK, "home", "", map[string]interface{}{
		"Sets":     sets,
		"SignedIn": user != nil,
		"Query":    query,
	})
}

// GET /study-set/{id}
func (db *DBHandler) StudySet(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("id")
	user := middleware.CurrentUser(r.Context())
	viewerID := middleware.CurrentUserID(r.Context())

	set, err := db.Sets.ByID(r.Context(), setID, viewerID)
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	var folders []models.Folder
	if user != nil {
		folders, err = db.Sets.FoldersForUser(r.Context(), user.ID, user.ID)
		if err != nil {
			db.renderError(w, r, err)
			return
		}
	}

	db.render(w, r, http.StatusOK, "study_set", set.Title, map[string]interface{}{
		"Set":            set,
		"OwnerHref":      views.ProfileHref(&set.User),
		"Options":        views.NewOptionsDropdown(set.OwnedBy(viewerID), set.PublicID),
		"FlashcardsHref": "/study-set/" + set.PublicID + "/flashcards",
		"Folders":        folders,
	})
}

// GET /study-set/{id}/print renders the printable copy of the set, reusing
// the set the study set page already fetched when it is still cached.
func (db *DBHandler) PrintStudySet(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("id")
	viewerID := middleware.CurrentUserID(r.Context())

	set, ok := db.Sets.Cached(setID, viewerID)
	if !ok {
		var err error
		set, err = db.Sets.ByID(r.Context(), setID, viewerID)
		if err != nil {
			db.renderError(w, r, err)
			return
		}
	}

	db.render(w, r, http.StatusOK, "print", set.Title, map[string]interface{}{"Set": set})
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func exportFilename(title string, format studyset.Format) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(title, "-"), "-")
	if name == "" {
		name = "study-set"
	}
	return name + format.Extension()
}

// GET /study-set/{id}/export?format=tsv|csv|xlsx
func (db *DBHandler) ExportStudySet(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("id")

	format, err := studyset.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	set, err := db.Sets.ByID(r.Context(), setID, middleware.CurrentUserID(r.Context()))
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := studyset.Export(&buf, set, format); err != nil {
		db.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(set.Title, format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// ownedSet loads the set for an owner-only page.
func (db *DBHandler) ownedSet(w http.ResponseWriter, r *http.Request, user *models.User) (*models.FlashcardSet, bool) {
	set, err := db.Sets.ByID(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		db.renderError(w, r, err)
		return nil, false
	}
	if !set.OwnedBy(user.ID) {
		db.renderError(w, r, studyset.ErrForbidden)
		return nil, false
	}
	return set, true
}

// GET /study-set/{id}/delete shows the confirmation dialog.
func (db *DBHandler) ConfirmDeleteStudySet(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	set, ok := db.ownedSet(w, r, user)
	if !ok {
		return
	}
	db.render(w, r, http.StatusOK, "delete", "Delete "+set.Title, set)
}

// POST /study-set/{id}/delete
func (db *DBHandler) DeleteStudySet(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}

	if err := db.Sets.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		db.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, views.ProfileHref(user)+"/study-sets", http.StatusSeeOther)
}

func (db *DBHandler) renderCombine(w http.ResponseWriter, r *http.Request, status int, user *models.User, set *models.FlashcardSet, title, message string) {
	sets, err := db.Sets.ForUser(r.Context(), user.ID, user.ID)
	if err != nil {
		db.renderError(w, r, err)
		return
	}

	candidates := make([]models.FlashcardSet, 0, len(sets))
	for _, s := range sets {
		if s.PublicID != set.PublicID {
			candidates = append(candidates, s)
		}
	}

	db.render(w, r, status, "combine", "Combine "+set.Title, map[string]interface{}{
		"Set":        set,
		"Candidates": candidates,
		"Title":      title,
		"Error":      message,
	})
}

// GET /study-set/{id}/combine
func (db *DBHandler) CombineForm(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	set, ok := db.ownedSet(w, r, user)
	if !ok {
		return
	}
	db.renderCombine(w, r, http.StatusOK, user, set, set.Title+" (combined)", "")
}

// POST /study-set/{id}/combine
func (db *DBHandler) CombineStudySet(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	set, ok := db.ownedSet(w, r, user)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		db.renderMessage(w, r, http.StatusBadRequest, "Invalid form")
		return
	}

	title := strings.TrimSpace(r.PostForm.Get("title"))
	combined, err := db.Sets.Combine(r.Context(), user.ID, set.PublicID, studyset.CombineInput{
		Title:    title,
		OtherIDs: r.PostForm["set"],
	})
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			db.renderCombine(w, r, http.StatusBadRequest, user, set, title, "Give the new set a title and pick at least one other set.")
			return
		}
		db.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/study-set/"+combined.PublicID, http.StatusSeeOther)
}

const (
	defaultCardRows = 5
	maxCardRows     = 100
)

type createSetForm struct {
	Title       string
	Description string
	IsPublic    bool
	Cards       []studyset.CardInput
	MoreRows    int
	Error       string
}

// GET /create-set
func (db *DBHandler) CreateSetForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := db.requireUser(w, r); !ok {
		return
	}

	rows, err := strconv.Atoi(r.URL.Query().Get("rows"))
	if err != nil || rows < defaultCardRows {
		rows = defaultCardRows
	}
	if rows > maxCardRows {
		rows = maxCardRows
	}

	db.render(w, r, http.StatusOK, "create_set", "Create a new study set", createSetForm{
		Cards:    make([]studyset.CardInput, rows),
		MoreRows: rows + 1,
	})
}

// POST /create-set
func (db *DBHandler) CreateStudySet(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		db.renderMessage(w, r, http.StatusBadRequest, "Invalid form")
		return
	}

	input := studyset.CreateInput{
		Title:       strings.TrimSpace(r.PostForm.Get("title")),
		Description: strings.TrimSpace(r.PostForm.Get("description")),
		IsPublic:    r.PostForm.Get("public") == "true",
		Cards:       cardInputs(r.PostForm["term"], r.PostForm["definition"]),
	}

	set, err := db.Sets.Create(r.Context(), user.ID, input)
	if err != nil {
		if statusFor(err) != http.StatusBadRequest {
			db.renderError(w, r, err)
			return
		}
		cards := input.Cards
		for len(cards) < defaultCardRows {
			cards = append(cards, studyset.CardInput{})
		}
		db.render(w, r, http.StatusBadRequest, "create_set", "Create a new study set", createSetForm{
			Title:       input.Title,
			Description: input.Description,
			IsPublic:    input.IsPublic,
			Cards:       cards,
			MoreRows:    len(cards) + 1,
			Error:       "A study set needs a title and at least one card with both a term and a definition.",
		})
		return
	}

	http.Redirect(w, r, "/study-set/"+set.PublicID, http.StatusSeeOther)
}

// cardInputs pairs terms with definitions, dropping rows left fully blank.
func cardInputs(terms, definitions []string) []studyset.CardInput {
	n := len(terms)
	if len(definitions) > n {
		n = len(definitions)
	}

	var cards []studyset.CardInput
	for i := 0; i < n; i++ {
		var card studyset.CardInput
		if i < len(terms) {
			card.Term = strings.TrimSpace(terms[i])
		}
		if i < len(definitions) {
			card.Definition = strings.TrimSpace(definitions[i])
		}
		if card.Term == "" && card.Definition == "" {
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// GET /settings
func (db *DBHandler) Settings(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	db.render(w, r, http.StatusOK, "settings", "Settings", user)
}
