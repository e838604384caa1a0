package handlers

import (
	"errors"
	"net/http"
	"strconv"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
	interestsvc "github.com/vivahapp/backend/internal/services/interests"
	"github.com/vivahapp/backend/internal/transport/http/dto"
	httperrors "github.com/vivahapp/backend/internal/transport/http/errors"
)

const defaultInterestListLimit = 50

type InterestsHandler struct {
	service *interestsvc.Service
}

func NewInterestsHandler(service *interestsvc.Service) *InterestsHandler {
	return &InterestsHandler{service: service}
}

func (h *InterestsHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERESTS_SERVICE_UNAVAILABLE", "interests service is unavailable")
		return
	}

	var req dto.InterestSendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	err := h.service.Send(r.Context(), identity.UserID, req.ReceiverUserID, req.Timezone)
	if err != nil {
		if tooFast, ok := interestsvc.IsTooFast(err); ok {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "interest sends are rate limited",
				RetryAfterSec: tooFast.RetryAfter(),
			})
			return
		}
		switch {
		case errors.Is(err, interestsvc.ErrDailyLimit):
			httperrors.Write(w, http.StatusConflict, httperrors.APIError{
				Code:    "DAILY_LIMIT_REACHED",
				Message: "daily interest limit reached",
			})
		case errors.Is(err, interestsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid interest request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to send interest")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InterestSendResponse{Status: "pending"})
}

func (h *InterestsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

func (h *InterestsHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *InterestsHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERESTS_SERVICE_UNAVAILABLE", "interests service is unavailable")
		return
	}

	var req dto.InterestRespondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	var err error
	if accept {
		err = h.service.Accept(r.Context(), identity.UserID, req.SenderUserID)
	} else {
		err = h.service.Decline(r.Context(), identity.UserID, req.SenderUserID)
	}
	if err != nil {
		switch {
		case errors.Is(err, interestsvc.ErrNotFound):
			writeNotFound(w, "INTEREST_NOT_FOUND", "no pending interest from this user")
		case errors.Is(err, interestsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid interest request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to respond to interest")
		}
		return
	}

	status := "accepted"
	if !accept {
		status = "declined"
	}
	httperrors.Write(w, http.StatusOK, dto.InterestSendResponse{Status: status})
}

func (h *InterestsHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *InterestsHandler) Sent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *InterestsHandler) list(w http.ResponseWriter, r *http.Request, incoming bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERESTS_SERVICE_UNAVAILABLE", "interests service is unavailable")
		return
	}

	limit := defaultInterestListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var (
		items []interestsvc.Item
		err   error
	)
	if incoming {
		items, err = h.service.ListIncoming(r.Context(), identity.UserID, limit)
	} else {
		items, err = h.service.ListSent(r.Context(), identity.UserID, limit)
	}
	if err != nil {
		if errors.Is(err, interestsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid interest request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load interests")
		return
	}

	out := make([]dto.InterestItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.InterestItemResponse{
			InterestID:  item.InterestID,
			UserID:      item.UserID,
			DisplayName: item.DisplayName,
			Age:         item.Age,
			City:        item.City,
			Status:      string(item.Status),
			CreatedAt:   item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.InterestListResponse{Items: out})
}
