package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
	profilesvc "github.com/vivahapp/backend/internal/services/profiles"
	subssvc "github.com/vivahapp/backend/internal/services/subscriptions"
	"github.com/vivahapp/backend/internal/transport/http/dto"
	httperrors "github.com/vivahapp/backend/internal/transport/http/errors"
)

type MeHandler struct {
	profiles      *profilesvc.Service
	subscriptions *subssvc.Service
}

func NewMeHandler(profiles *profilesvc.Service, subscriptions *subssvc.Service) *MeHandler {
	return &MeHandler{
		profiles:      profiles,
		subscriptions: subscriptions,
	}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.profiles == nil || h.subscriptions == nil {
		writeInternal(w, "ME_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	resp := dto.MeResponse{UserID: identity.UserID}

	record, err := h.profiles.Get(r.Context(), identity.UserID)
	switch {
	case err == nil:
		resp.Profile = mapProfileDetail(record)
		resp.ProfileCompleted = record.ProfileCompleted
	case errors.Is(err, profilesvc.ErrNotFound):
		// A fresh account has no profile row yet; that is not an error.
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}

	snapshot, err := h.subscriptions.Get(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load subscription")
		return
	}
	resp.Subscription = dto.SubscriptionResponse{
		IsPremium: snapshot.IsPremium,
		Plan:      string(snapshot.Plan),
		ExpiresAt: snapshot.ExpiresAt,
	}

	httperrors.Write(w, http.StatusOK, resp)
}
