package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
	profilesvc "github.com/vivahapp/backend/internal/services/profiles"
	"github.com/vivahapp/backend/internal/transport/http/dto"
	httperrors "github.com/vivahapp/backend/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Core(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileCoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "birthdate must be YYYY-MM-DD")
		return
	}

	completed, err := h.service.UpdateCore(r.Context(), identity.UserID, profilesvc.CoreInput{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		Birthdate:     birthdate,
		Gender:        req.Gender,
		MotherTongue:  req.MotherTongue,
		Religion:      req.Religion,
		Community:     req.Community,
		MaritalStatus: req.MaritalStatus,
		Occupation:    req.Occupation,
		Education:     req.Education,
		HeightCM:      req.HeightCM,
		City:          req.City,
		Country:       req.Country,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrAgeRejected):
			writeBadRequest(w, "AGE_REJECTED", "profile owner must be an adult")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileCoreResponse{ProfileCompleted: completed})
}

func (h *ProfileHandler) Visibility(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.VisibilitySettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	err := h.service.UpdateVisibility(r.Context(), identity.UserID, profilesvc.VisibilityInput{
		ProfileVisibility: req.ProfileVisibility,
		PhotoVisibility:   req.PhotoVisibility,
		ContactVisibility: req.ContactVisibility,
	})
	if err != nil {
		if errors.Is(err, profilesvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "unknown visibility value")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to update visibility")
		return
	}

	httperrors.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ProfileHandler) Contact(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ContactUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	if err := h.service.UpdateContact(r.Context(), identity.UserID, req.Email, req.PhoneE164); err != nil {
		if errors.Is(err, profilesvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "contact validation failed")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to update contact")
		return
	}

	httperrors.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
