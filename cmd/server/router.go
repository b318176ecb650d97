package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xelami/kouza-api/internal/api"
	apiMiddleware "github.com/xelami/kouza-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	sessionHandler := api.NewSessionHandler(app.reviewService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.cardStore, app.reviewService, app.eventEmitter, app.logger)
	goalHandler := api.NewGoalHandler(app.goalService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.goalService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Study session endpoints
			r.Post("/sessions", sessionHandler.StartSession)
			r.Post("/sessions/{id}/end", sessionHandler.EndSession)

			// Flashcard endpoints
			r.Post("/flashcards", flashcardHandler.CreateFlashcard)
			r.Get("/flashcards/due", flashcardHandler.ListDue)
			r.Patch("/flashcards/{id}/review", flashcardHandler.SubmitReview)
			r.Delete("/flashcards/{id}", flashcardHandler.DeleteFlashcard)
			r.Post("/flashcards/generate", flashcardHandler.GenerateFlashcards)

			// Quiz and progress endpoints
			r.Post("/quiz/progress", progressHandler.RecordQuizScore)

			// Learning goal endpoints
			r.Post("/goals", goalHandler.CreateGoal)
			r.Get("/goals", goalHandler.ListGoals)
			r.Get("/goals/{id}", goalHandler.GetGoal)
			r.Put("/goals/{id}", goalHandler.UpdateGoal)
			r.Delete("/goals/{id}", goalHandler.DeleteGoal)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
