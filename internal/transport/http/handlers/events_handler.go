package handlers

import (
	"errors"
	"net/http"

	telemetrysvc "github.com/vivahapp/backend/internal/services/telemetry"
	"github.com/vivahapp/backend/internal/transport/http/dto"
	httperrors "github.com/vivahapp/backend/internal/transport/http/errors"
)

type EventsHandler struct {
	service *telemetrysvc.Service
}

func NewEventsHandler(service *telemetrysvc.Service) *EventsHandler {
	return &EventsHandler{service: service}
}

// Batch accepts events from authenticated and anonymous clients alike;
// anonymous rows are stored without a user id.
func (h *EventsHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "TELEMETRY_SERVICE_UNAVAILABLE", "telemetry service is unavailable")
		return
	}

	var req dto.EventsBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	events := make([]telemetrysvc.BatchEvent, 0, len(req.Events))
	for _, event := range req.Events {
		events = append(events, telemetrysvc.BatchEvent{
			Name:  event.Name,
			TS:    event.TS,
			Props: event.Props,
		})
	}

	accepted, err := h.service.IngestBatch(r.Context(), optionalViewerID(r), events)
	if err != nil {
		if errors.Is(err, telemetrysvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid events batch")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to ingest events")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.EventsBatchResponse{Accepted: accepted})
}
