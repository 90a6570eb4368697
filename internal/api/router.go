package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/isdelr/social-feed-be/internal/api/handlers"
	"github.com/isdelr/social-feed-be/internal/auth"
)

// NewRouter creates and configures a new Chi router. The auth middleware
// only annotates requests; every operation enforces its own
// authentication requirement.
func NewRouter(tokens *auth.Manager, gql *handlers.GraphQLHandler, upload *handlers.UploadHandler, imagesDir string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// All origins are allowed; the API is consumed by browser clients
	// served from anywhere. OPTIONS preflights short-circuit with 200.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Use(tokens.Middleware())

	r.Get("/graphql", gql.Serve)
	r.Post("/graphql", gql.Serve)
	r.Post("/upload-image", upload.Serve)

	fileServer := http.StripPrefix("/images/", http.FileServer(http.Dir(imagesDir)))
	r.Get("/images/*", fileServer.ServeHTTP)

	return r
}
