package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/social-feed-be/internal/apperr"
	"github.com/isdelr/social-feed-be/internal/auth"
	"github.com/isdelr/social-feed-be/internal/images"
)

// maxUploadBytes bounds how much of a multipart body is held in memory.
const maxUploadBytes = 10 << 20

// acceptedImageTypes lists the MIME types the upload endpoint stores.
// Anything else is silently dropped, which the endpoint then reports as
// "no file received".
var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// UploadHandler accepts a single image upload and stores it under a
// generated name.
type UploadHandler struct {
	store *images.Store
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *images.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Serve handles POST /upload-image: multipart form with an "image" file
// field and an optional "oldPath" field naming a previous upload to
// discard.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.Identity(r.Context()); !ok {
		writeError(w, apperr.Unauthenticated("not authenticated"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, apperr.NotFound("No file found"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperr.NotFound("No file found"))
		return
	}
	defer file.Close()

	// The MIME filter is deliberately silent: a disallowed type is
	// indistinguishable from no upload at all.
	if !acceptedImageTypes[header.Header.Get("Content-Type")] {
		writeError(w, apperr.NotFound("No file found"))
		return
	}

	if oldPath := r.FormValue("oldPath"); oldPath != "" {
		// Fire and forget; a failure is logged inside Remove.
		h.store.Remove(oldPath)
	}

	filePath, err := h.store.Save(file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store uploaded image")
		writeError(w, &apperr.Error{Code: http.StatusInternalServerError, Message: "could not store file"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message":  "File stored!",
		"filePath": filePath,
	})
}

// writeError emits the {message, data} body the non-GraphQL surface uses,
// with a real HTTP status code.
func writeError(w http.ResponseWriter, err *apperr.Error) {
	data := err.Data
	if data == nil {
		data = []apperr.FieldError{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": err.Message,
		"data":    data,
	})
}
