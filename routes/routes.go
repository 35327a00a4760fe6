package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/recruitkit/recruitkit/app"
	"github.com/recruitkit/recruitkit/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	root.Post("/apply", PublicSubmitApplication(app))
	root.Handle("/uploads/*", http.StripPrefix("/uploads", serveUploads(app.Config.UploadsDir)))

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/openings/{id}/form", PublicGetForm(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Recruiter(app.Config.TokenSecret))

		// CRUD opening
		r.Post("/openings", CreateOpening(app))
		r.Get("/openings", ListOpenings(app))
		r.Get("/openings/{id}", GetOpeningById(app))
		r.Put("/openings/{id}", UpdateOpening(app))
		r.Delete("/openings/{id}", DeleteOpening(app))

		// form builder + publication
		r.Get("/openings/{id}/form", GetForm(app))
		r.Put("/openings/{id}/form", SaveForm(app))
		r.Post("/openings/{id}/publish", PublishOpening(app))

		// candidate review
		r.Get("/openings/{id}/responses", ListResponses(app))
		r.Get("/openings/{id}/responses/export", ExportResponses(app))
		r.Patch("/responses/{id}/status", UpdateResponseStatus(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func serveUploads(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}
