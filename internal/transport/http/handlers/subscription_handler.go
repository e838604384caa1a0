package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
	subssvc "github.com/vivahapp/backend/internal/services/subscriptions"
	"github.com/vivahapp/backend/internal/transport/http/dto"
	httperrors "github.com/vivahapp/backend/internal/transport/http/errors"
)

type SubscriptionHandler struct {
	service *subssvc.Service
}

func NewSubscriptionHandler(service *subssvc.Service) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SUBSCRIPTION_SERVICE_UNAVAILABLE", "subscription service is unavailable")
		return
	}

	snapshot, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, subssvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid subscription request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load subscription")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SubscriptionResponse{
		IsPremium: snapshot.IsPremium,
		Plan:      string(snapshot.Plan),
		ExpiresAt: snapshot.ExpiresAt,
	})
}
