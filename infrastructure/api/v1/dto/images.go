// Package dto defines the request and response shapes of the v1 API.
package dto

// CaptionResponse is the response of POST /caption-image.
type CaptionResponse struct {
	Caption string `json:"caption"`
}

// DescriptionRequest is the request body of POST /search-by-description.
type DescriptionRequest struct {
	Description string `json:"description"`
}

// SearchResponse is the response of both search endpoints. ImageBytes is
// the base64-encoded compressed image payload.
type SearchResponse struct {
	ImageBytes string  `json:"image_bytes"`
	Caption    string  `json:"caption"`
	Score      float64 `json:"score"`
}

// HealthResponse is the response of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Images int64  `json:"images"`
}
