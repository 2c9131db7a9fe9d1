package handlers

import (
	"log"
	"net/http"

	"estateBack/internal/services"
)

type ImageHandler struct {
	Service  *services.ImageService
	ErrorLog *log.Logger
}

// UploadAuth hands the browser a presigned URL for a direct upload.
func (h *ImageHandler) UploadAuth(w http.ResponseWriter, r *http.Request) {
	auth, err := h.Service.UploadAuth(ActorFrom(r.Context()), r.URL.Query().Get("filename"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, auth)
}
