package controllers

import (
	"encoding/json"
	"net/http"

	"thingsmatch_server/services"
)

// MediaController hands out presigned URLs for item photos.
type MediaController struct {
	MediaService *services.MediaService
}

// NewMediaController initializes the media controller.
func NewMediaController(service *services.MediaService) *MediaController {
	return &MediaController{MediaService: service}
}

// HandleUploadURL handles POST /media/upload-url.
func (c *MediaController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	url, key, err := c.MediaService.GenerateUploadURL(r.Context(), body.FileName, body.FileType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

// HandleReadURL handles GET /media/read-url?key=.
func (c *MediaController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	url, err := c.MediaService.GenerateReadURL(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
