package handlers

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/andrewpaige1/nodebook-web/views"
)

// Routes registers the pages and the JSON API. The API is wrapped in CORS for
// the listed origins.
func (db *DBHandler) Routes(origins []string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", views.StaticHandler())

	// Pages
	mux.HandleFunc("GET /{$}", db.Home)
	mux.HandleFunc("GET /settings", db.Settings)
	mux.HandleFunc("GET /create-set", db.CreateSetForm)
	mux.HandleFunc("POST /create-set", db.CreateStudySet)

	// Session
	mux.HandleFunc("POST /login", db.Login)
	mux.HandleFunc("POST /signup", db.Signup)
	mux.HandleFunc("POST /logout", db.Logout)

	// Profile
	mux.HandleFunc("GET /users/{nickname}", db.ProfileAchievements)
	mux.HandleFunc("GET /users/{nickname}/study-sets", db.ProfileStudySets)
	mux.HandleFunc("GET /users/{nickname}/folders", db.ProfileFolders)

	// Folders
	mux.HandleFunc("POST /folders", db.CreateFolder)
	mux.HandleFunc("POST /folders/add", db.AddSetToFolder)

	// Study set
	mux.HandleFunc("GET /study-set/{id}", db.StudySet)
	mux.HandleFunc("GET /study-set/{id}/print", db.PrintStudySet)
	mux.HandleFunc("GET /study-set/{id}/export", db.ExportStudySet)
	mux.HandleFunc("GET /study-set/{id}/delete", db.ConfirmDeleteStudySet)
	mux.HandleFunc("POST /study-set/{id}/delete", db.DeleteStudySet)
	mux.HandleFunc("GET /study-set/{id}/combine", db.CombineForm)
	mux.HandleFunc("POST /study-set/{id}/combine", db.CombineStudySet)

	// Flashcards
	mux.HandleFunc("GET /study-set/{id}/flashcards", db.StartFlashcards)
	mux.HandleFunc("GET /study-set/{id}/flashcards/{session}", db.ShowFlashcards)
	mux.HandleFunc("POST /study-set/{id}/flashcards/{session}/{action}", db.FlashcardsAction)

	// API
	api := http.NewServeMux()
	api.HandleFunc("POST /api/sets", db.CreateFlashCardSet)
	api.HandleFunc("GET /api/sets/{setID}", db.GetSetByID)
	api.HandleFunc("DELETE /api/sets/{setID}", db.DeleteSetByID)
	api.HandleFunc("POST /api/sets/{setID}/combine", db.CombineSets)
	api.HandleFunc("GET /api/sets/{setID}/flashcards", db.GetFlashcardsForSet)
	api.HandleFunc("GET /api/users/{nickname}/sets", db.GetSetsForUser)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(api)
	mux.Handle("/api/", corsHandler)

	return mux
}
