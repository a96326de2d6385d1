package httpapi

import (
	"errors"
	"net/http"

	"qmsevents/internal/errs"
	"qmsevents/internal/usecase/assist"
)

type assistRequest struct {
	Prompt        *string          `json:"prompt"`
	EventsContext []map[string]any `json:"events_context"`
}

type assistResponse struct {
	Response string `json:"response"`
}

func (h *Handler) handleAssist(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.metrics.observeAssist(assistOutcomeBadRequest)
		writeError(r.Context(), w, err)
		return
	}
	if req.Prompt == nil {
		h.metrics.observeAssist(assistOutcomeBadRequest)
		writeError(r.Context(), w, errs.E(errs.KindValidation, "prompt is required"))
		return
	}
	if req.EventsContext == nil {
		h.metrics.observeAssist(assistOutcomeBadRequest)
		writeError(r.Context(), w, errs.E(errs.KindValidation, "events_context is required"))
		return
	}

	text, err := h.assist.Assist(r.Context(), assist.AssistInput{
		Prompt:        *req.Prompt,
		EventsContext: req.EventsContext,
	})
	if err != nil {
		if errors.Is(err, assist.ErrCredentialMissing) {
			h.metrics.observeAssist(assistOutcomeCredentialMissing)
		} else {
			h.metrics.observeAssist(assistOutcomeUpstreamError)
		}
		writeError(r.Context(), w, err)
		return
	}

	h.metrics.observeAssist(assistOutcomeOK)
	writeJSON(w, http.StatusOK, assistResponse{Response: text})
}
