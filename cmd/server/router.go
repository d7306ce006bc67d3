package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/kioku/internal/api"
	authmiddleware "github.com/phrazzld/kioku/internal/api/middleware"
)

// setupRouter builds the HTTP routes and middleware chain.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(authmiddleware.NewTraceMiddleware(app.logger))
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	authMiddleware := authmiddleware.NewAuthMiddleware(app.jwtService)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	itemHandler := api.NewItemHandler(app.itemService, app.logger)
	profileHandler := api.NewProfileHandler(app.profileService, app.logger)
	practiceHandler := api.NewPracticeHandler(app.practiceService, app.logger)

	r.Get("/health", api.NewHealthHandler(app.storage.db, 2*time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/reviews/due", reviewHandler.GetDueItems)
		r.Get("/reviews/next", reviewHandler.GetNextItem)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", itemHandler.GetItem)
				r.Delete("/", itemHandler.DeleteItem)
				r.Post("/grade", reviewHandler.SubmitGrade)
				r.Post("/postpone", reviewHandler.Postpone)
			})
		})

		r.Get("/profile", profileHandler.GetProfile)
		r.Put("/profile", profileHandler.UpdateProfile)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", practiceHandler.ListQuotes)
			r.Post("/", practiceHandler.CreateQuote)
			r.Get("/{id}", practiceHandler.GetQuote)
			r.Delete("/{id}", practiceHandler.DeleteQuote)
		})
		r.Get("/practice/next", practiceHandler.NextQuote)
		r.Post("/practice/{id}/check", practiceHandler.CheckTyping)
	})

	return r
}
