package views

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-web/models"
	"github.com/andrewpaige1/nodebook-web/review"
)

func user(id uint, nickname string) *models.User {
	return &models.User{Model: gorm.Model{ID: id}, Nickname: nickname, Name: "Ada Lovelace", Email: nickname + "@example.com"}
}

func TestNavbarSignedOut(t *testing.T) {
	nav := NewNavbar(nil, "/study-set/abc", url.Values{"auth": {"signup"}})

	assert.Nil(t, nav.User)
	assert.Equal(t, "/study-set/abc?auth=login", nav.LoginHref)
	assert.Equal(t, "/study-set/abc?auth=signup", nav.SignupHref)
	assert.Equal(t, nav.LoginHref, nav.CreateStudySetHref)
	assert.Equal(t, nav.LoginHref, nav.CreateFolderHref)
	assert.Equal(t, PromptSignup, nav.Prompt)
	assert.False(t, nav.FolderDialog)
}

func TestNavbarSignedIn(t *testing.T) {
	nav := NewNavbar(user(7, "ada"), "/", url.Values{"auth": {"login"}, "dialog": {"folder"}})

	require.NotNil(t, nav.User)
	assert.Equal(t, "Ada Lovelace", nav.User.Name)
	assert.Equal(t, "A", nav.User.Initial)
	assert.Equal(t, "/users/ada", nav.User.ProfileHref)
	assert.Equal(t, "/create-set", nav.CreateStudySetHref)
	assert.Equal(t, "/?dialog=folder", nav.CreateFolderHref)
	assert.Equal(t, PromptNone, nav.Prompt)
	assert.True(t, nav.FolderDialog)
}

func TestParsePrompt(t *testing.T) {
	assert.Equal(t, PromptLogin, ParsePrompt("login"))
	assert.Equal(t, PromptNone, ParsePrompt("admin"))
}

func TestProfileLayoutTabs(t *testing.T) {
	owner := user(1, "ada")
	visitor := user(2, "bob")

	tests := []struct {
		name   string
		viewer *models.User
		path   string
		keys   []string
		active string
	}{
		{"owner on achievements", owner, "/users/ada", []string{"1", "2", "3"}, TabAchievements},
		{"owner on study sets", owner, "/users/ada/study-sets", []string{"1", "2", "3"}, TabStudySets},
		{"owner on folders", owner, "/users/ada/folders", []string{"1", "2", "3"}, TabFolders},
		{"visitor on study sets", visitor, "/users/ada/study-sets", []string{"2", "3"}, TabStudySets},
		{"anonymous on folders", nil, "/users/ada/folders", []string{"2", "3"}, TabFolders},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := NewProfileLayout(tt.viewer, owner, tt.path)

			var keys []string
			for _, tab := range layout.Tabs {
				keys = append(keys, tab.Key)
			}
			assert.Equal(t, tt.keys, keys)
			assert.Equal(t, tt.active, layout.ActiveKey)
			assert.Equal(t, "Ada Lovelace", layout.Name)
		})
	}
}

func TestOptionsDropdown(t *testing.T) {
	owner := NewOptionsDropdown(true, "abc")
	assert.Equal(t, "More", owner.Label)
	assert.Equal(t, []string{"Combine", "Print", "Export", "Delete"}, owner.Labels())
	assert.True(t, owner.DeleteDialog)
	assert.Equal(t, "/study-set/abc/combine", owner.Items[0].Href)
	assert.True(t, owner.Items[1].NewTab)

	visitor := NewOptionsDropdown(false, "abc")
	assert.Equal(t, []string{"Print", "Export"}, visitor.Labels())
	assert.False(t, visitor.DeleteDialog)
	assert.Len(t, visitor.ExportLinks, 3)
}

func TestFlashcardsPage(t *testing.T) {
	s := review.New([]review.Card{
		{ID: "1", Term: "A", Definition: "a"},
		{ID: "2", Term: "B", Definition: "b"},
	})

	page := NewFlashcardsPage("Letters", "set1", "sess", s)
	require.NotNil(t, page.Card)
	assert.Nil(t, page.Result)
	assert.Equal(t, 1, page.Card.Number)
	assert.Equal(t, 2, page.Card.Length)
	assert.False(t, page.CanPrev)
	assert.Equal(t, "/study-set/set1/flashcards/sess", page.ActionURL)

	s.Know()
	s.StillLearning()
	page = NewFlashcardsPage("Letters", "set1", "sess", s)
	assert.Nil(t, page.Card)
	require.NotNil(t, page.Result)
	assert.Equal(t, Score{Know: 1, Learning: 1}, page.Score)
	assert.Equal(t, "tough", page.Result.First.Action)
	assert.Equal(t, "/study-set/set1", page.Result.Second.Href)
}

func TestRendererRendersEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	set := &models.FlashcardSet{
		Title:    "Capitals",
		PublicID: "abc",
		User:     *user(1, "ada"),
		Flashcards: []models.Flashcard{
			{Term: "France", Definition: "Paris"},
		},
	}
	s := review.New([]review.Card{{Term: "France", Definition: "Paris"}})

	pages := map[string]interface{}{
		"home":  map[string]interface{}{"Sets": []models.FlashcardSet{*set}, "SignedIn": true, "Query": ""},
		"error": map[string]interface{}{"Message": "boom"},
		"study_set": map[string]interface{}{
			"Set":            set,
			"OwnerHref":      "/users/ada",
			"Options":        NewOptionsDropdown(true, "abc"),
			"FlashcardsHref": "/study-set/abc/flashcards",
			"Folders":        []models.Folder{{Name: "Geo", PublicID: "f1"}},
		},
		"print":      map[string]interface{}{"Set": set},
		"flashcards": NewFlashcardsPage("Capitals", "abc", "sess", s),
		"profile_sets": map[string]interface{}{
			"Layout": NewProfileLayout(nil, user(1, "ada"), "/users/ada/study-sets"),
			"Sets":   []models.FlashcardSet{*set},
		},
	}

	for name, data := range pages {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			page := Page{Title: "T", Navbar: NewNavbar(user(1, "ada"), "/", url.Values{}), Data: data}
			require.NoError(t, r.Render(rec, http.StatusOK, name, page))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		})
	}

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "study_set", Page{Navbar: NewNavbar(nil, "/", url.Values{}), Data: pages["study_set"]}))
	body := rec.Body.String()
	assert.Contains(t, body, "Combine")
	assert.Contains(t, body, "Paris")
	assert.Contains(t, body, "Log in")

	assert.Error(t, r.Render(httptest.NewRecorder(), http.StatusOK, "missing", Page{}))
}
