package controllers

import (
	"net/http"

	"bumblechat_server/services"
)

// MediaController hands out presigned S3 URLs for profile photos.
type MediaController struct {
	S3Service *services.S3Service
}

// NewMediaController initializes the media controller.
func NewMediaController(service *services.S3Service) *MediaController {
	return &MediaController{S3Service: service}
}

// HandleGetUploadURL returns a presigned PUT URL for a new object.
func (c *MediaController) HandleGetUploadURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	var req struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FileName == "" || req.FileType == "" {
		respondError(w, http.StatusBadRequest, "fileName and fileType are required")
		return
	}

	url, key, err := c.S3Service.GenerateUploadURL(r.Context(), req.FileName, req.FileType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate upload URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"uploadURL": url, "key": key})
}

// HandleGetReadURL returns a presigned GET URL for an existing object.
func (c *MediaController) HandleGetReadURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key query parameter is required")
		return
	}

	url, err := c.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate read URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"readURL": url})
}
