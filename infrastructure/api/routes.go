package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/capdex/capdex"
	apimiddleware "github.com/capdex/capdex/infrastructure/api/middleware"
	v1 "github.com/capdex/capdex/infrastructure/api/v1"
)

// mountRoutes wires the liveness probe and the v1 API onto the router.
func mountRoutes(router chi.Router, client *capdex.Client, corsOrigins []string) {
	logger := client.Logger()

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	router.Use(apimiddleware.Logging(logger))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("API is running"))
	})

	imagesRouter := v1.NewImagesRouter(client.Ingestion, client.Search, client.Store(), logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Mount("/", imagesRouter.Routes())
	})
}
