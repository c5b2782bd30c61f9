// Package v1 implements the v1 HTTP API routes.
package v1

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/capdex/capdex/application/service"
	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/infrastructure/api/middleware"
	"github.com/capdex/capdex/infrastructure/api/v1/dto"
)

// maxUploadBytes caps multipart uploads held in memory.
const maxUploadBytes = 32 << 20

// ImagesRouter handles the caption and search endpoints.
type ImagesRouter struct {
	ingestion *service.Ingestion
	search    *service.Search
	store     gallery.Store
	logger    *slog.Logger
}

// NewImagesRouter creates an ImagesRouter.
func NewImagesRouter(ingestion *service.Ingestion, search *service.Search, store gallery.Store, logger *slog.Logger) *ImagesRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImagesRouter{
		ingestion: ingestion,
		search:    search,
		store:     store,
		logger:    logger,
	}
}

// Routes returns the chi router for image endpoints.
func (rt *ImagesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/health", rt.Health)
	router.Post("/caption-image", rt.CaptionImage)
	router.Post("/search-by-image", rt.SearchByImage)
	router.Post("/search-by-description", rt.SearchByDescription)

	return router
}

// Health handles GET /health.
func (rt *ImagesRouter) Health(w http.ResponseWriter, r *http.Request) {
	count, err := rt.store.Count(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Images: count})
}

// CaptionImage handles POST /caption-image: caption, embed, and persist the
// uploaded image, returning the generated caption.
func (rt *ImagesRouter) CaptionImage(w http.ResponseWriter, r *http.Request) {
	raw, filename, err := readUpload(r)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	caption, err := rt.ingestion.CaptionImage(r.Context(), raw, filename)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.CaptionResponse{Caption: caption})
}

// SearchByImage handles POST /search-by-image: caption and embed the
// uploaded image, then return the nearest stored match.
func (rt *ImagesRouter) SearchByImage(w http.ResponseWriter, r *http.Request) {
	raw, _, err := readUpload(r)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	match, err := rt.search.ByImage(r.Context(), raw)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.SearchResponse{
		ImageBytes: base64.StdEncoding.EncodeToString(match.ImageBytes()),
		Caption:    match.Caption(),
		Score:      match.Score(),
	})
}

// SearchByDescription handles POST /search-by-description: embed the
// free-text description, then return the nearest stored match.
func (rt *ImagesRouter) SearchByDescription(w http.ResponseWriter, r *http.Request) {
	var body dto.DescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, r, fmt.Errorf("%w: decode request body: %w", gallery.ErrValidation, err), rt.logger)
		return
	}

	match, err := rt.search.ByDescription(r.Context(), body.Description)
	if err != nil {
		middleware.WriteError(w, r, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.SearchResponse{
		ImageBytes: base64.StdEncoding.EncodeToString(match.ImageBytes()),
		Caption:    match.Caption(),
		Score:      match.Score(),
	})
}

// readUpload extracts the "file" part of a multipart upload.
func readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", fmt.Errorf("%w: parse multipart form: %w", gallery.ErrValidation, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: missing file field: %w", gallery.ErrValidation, err)
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read upload: %w", gallery.ErrValidation, err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", gallery.ErrValidation)
	}

	return raw, header.Filename, nil
}
