package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
	photossvc "github.com/vivahapp/backend/internal/services/photos"
	"github.com/vivahapp/backend/internal/transport/http/dto"
	httperrors "github.com/vivahapp/backend/internal/transport/http/errors"
)

const maxPhotoUploadSize = 10 << 20 // 10 MiB

// PhotosHandler manages the owner's gallery. Viewer-facing photo listings go
// through ProfileViewHandler so they pass the disclosure decision.
type PhotosHandler struct {
	service *photossvc.Service
}

func NewPhotosHandler(service *photossvc.Service) *PhotosHandler {
	return &PhotosHandler{service: service}
}

func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return
	}

	photo, err := h.service.Upload(r.Context(), identity.UserID, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		handlePhotosError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoUploadResponse{
		Photo: dto.PhotoResponse{
			ID:        photo.ID,
			Position:  photo.Position,
			URL:       photo.URL,
			CreatedAt: photo.CreatedAt,
		},
	})
}

func (h *PhotosHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	items, err := h.service.ListOwn(r.Context(), identity.UserID)
	if err != nil {
		handlePhotosError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotosListResponse{
		Disclosed: true,
		Total:     len(items),
		Photos:    mapPhotos(items),
	})
}

func handlePhotosError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, photossvc.ErrUnsupportedMimeType):
		writeBadRequest(w, "UNSUPPORTED_MEDIA_TYPE", "only jpeg, png and webp photos are accepted")
	case errors.Is(err, photossvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo request")
	case errors.Is(err, photossvc.ErrPhotoLimitReached):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "PHOTO_LIMIT_REACHED",
			Message: "photo limit reached",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "photo operation failed")
	}
}
