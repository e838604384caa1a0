package handlers

import (
	"errors"
	"net/http"

	"github.com/vivahapp/backend/internal/pkg/mask"
	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
	authsvc "github.com/vivahapp/backend/internal/services/auth"
	photossvc "github.com/vivahapp/backend/internal/services/photos"
	privacysvc "github.com/vivahapp/backend/internal/services/privacy"
	profilesvc "github.com/vivahapp/backend/internal/services/profiles"
	"github.com/vivahapp/backend/internal/transport/http/dto"
	httperrors "github.com/vivahapp/backend/internal/transport/http/errors"
)

const ctaUpgradeOrConnect = "upgrade_or_connect"

// ProfileViewHandler serves another user's profile through the disclosure
// decision. Denied axes are rendered masked or blurred, never as HTTP errors.
type ProfileViewHandler struct {
	privacy  *privacysvc.Service
	profiles *profilesvc.Service
	photos   *photossvc.Service
}

func NewProfileViewHandler(privacy *privacysvc.Service, profiles *profilesvc.Service, photos *photossvc.Service) *ProfileViewHandler {
	return &ProfileViewHandler{
		privacy:  privacy,
		profiles: profiles,
		photos:   photos,
	}
}

func (h *ProfileViewHandler) Profile(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := urlParamInt64(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}
	if h.privacy == nil || h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	viewerID := optionalViewerID(r)
	decision, err := h.privacy.EvaluateDisclosure(r.Context(), viewerID, subjectID)
	if err != nil {
		if errors.Is(err, privacysvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to evaluate disclosure")
		return
	}

	resp := dto.ProfileViewResponse{
		UserID:     subjectID,
		Disclosed:  decision.CanViewProfile,
		Disclosure: mapDecision(decision),
	}

	if !decision.CanViewProfile {
		// Confirm the subject exists so a restricted profile is
		// distinguishable from a missing one.
		if _, err := h.profiles.Get(r.Context(), subjectID); err != nil {
			if errors.Is(err, profilesvc.ErrNotFound) {
				writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
			return
		}
		resp.CTA = ctaUpgradeOrConnect
		httperrors.Write(w, http.StatusOK, resp)
		return
	}

	record, err := h.profiles.Get(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}

	resp.Profile = mapProfileDetail(record)
	resp.Contact = h.contactBlock(r, subjectID, decision.CanViewContact)
	if !decision.CanViewPhotos || !decision.CanViewContact {
		resp.CTA = ctaUpgradeOrConnect
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *ProfileViewHandler) Photos(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := urlParamInt64(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}
	if h.privacy == nil || h.photos == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	viewerID := optionalViewerID(r)
	decision, err := h.privacy.EvaluateDisclosure(r.Context(), viewerID, subjectID)
	if err != nil {
		if errors.Is(err, privacysvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid photos request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to evaluate disclosure")
		return
	}

	items, err := h.photos.ListVisible(r.Context(), subjectID, decision.CanViewPhotos)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load photos")
		return
	}

	resp := dto.PhotosListResponse{
		Disclosed: decision.CanViewPhotos,
		Total:     len(items),
		Photos:    mapPhotos(items),
	}
	if !decision.CanViewPhotos {
		resp.CTA = ctaUpgradeOrConnect
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *ProfileViewHandler) Contact(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := urlParamInt64(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}
	if h.privacy == nil || h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	viewerID := optionalViewerID(r)
	decision, err := h.privacy.EvaluateDisclosure(r.Context(), viewerID, subjectID)
	if err != nil {
		if errors.Is(err, privacysvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid contact request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to evaluate disclosure")
		return
	}

	disclose := decision.CanViewProfile && decision.CanViewContact
	record, err := h.profiles.GetContact(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			writeNotFound(w, "CONTACT_NOT_FOUND", "contact not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load contact")
		return
	}

	httperrors.Write(w, http.StatusOK, contactResponse(record, disclose))
}

func (h *ProfileViewHandler) contactBlock(r *http.Request, subjectID int64, disclose bool) *dto.ContactResponse {
	record, err := h.profiles.GetContact(r.Context(), subjectID)
	if err != nil {
		return nil
	}
	resp := contactResponse(record, disclose)
	return &resp
}

func contactResponse(record pgrepo.ContactRecord, disclose bool) dto.ContactResponse {
	if disclose {
		return dto.ContactResponse{
			Email:     record.Email,
			PhoneE164: record.PhoneE164,
			Masked:    false,
		}
	}
	return dto.ContactResponse{
		Email:     mask.Email(record.Email),
		PhoneE164: mask.Phone(record.PhoneE164),
		Masked:    true,
	}
}

func mapDecision(decision privacysvc.Decision) dto.DisclosureResponse {
	return dto.DisclosureResponse{
		CanViewProfile:   decision.CanViewProfile,
		CanViewPhotos:    decision.CanViewPhotos,
		CanViewContact:   decision.CanViewContact,
		ShouldBlurPhotos: decision.ShouldBlurPhotos,
	}
}

func mapProfileDetail(record pgrepo.ProfileRecord) *dto.ProfileDetail {
	return &dto.ProfileDetail{
		DisplayName:   record.DisplayName,
		Bio:           record.Bio,
		Age:           record.Age,
		Gender:        record.Gender,
		MotherTongue:  record.MotherTongue,
		Religion:      record.Religion,
		Community:     record.Community,
		MaritalStatus: record.MaritalStatus,
		Occupation:    record.Occupation,
		Education:     record.Education,
		HeightCM:      record.HeightCM,
		City:          record.City,
		Country:       record.Country,
		PhotosCount:   record.PhotosCount,
	}
}

func mapPhotos(items []photossvc.Photo) []dto.PhotoResponse {
	out := make([]dto.PhotoResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.PhotoResponse{
			ID:        item.ID,
			Position:  item.Position,
			URL:       item.URL,
			Blurred:   item.Blurred,
			CreatedAt: item.CreatedAt,
		})
	}
	return out
}

func optionalViewerID(r *http.Request) *int64 {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok || identity.UserID <= 0 {
		return nil
	}
	id := identity.UserID
	return &id
}
