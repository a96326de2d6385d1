package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domainevent "qmsevents/internal/domain/event"
	"qmsevents/internal/errs"
	eventuc "qmsevents/internal/usecase/event"
)

const maxBodyBytes = 1 << 20

// createEventRequest keeps dates untyped; the usecase normalizes them.
type createEventRequest struct {
	Title                *string `json:"title"`
	Description          *string `json:"description"`
	EventType            *string `json:"event_type"`
	Status               *string `json:"status"`
	Initiator            *string `json:"initiator"`
	Department           *string `json:"department"`
	Reporter             *string `json:"reporter"`
	Severity             *string `json:"severity"`
	Priority             *string `json:"priority"`
	EventDate            any     `json:"event_date"`
	ResponsiblePerson    *string `json:"responsible_person"`
	DueDate              any     `json:"due_date"`
	RiskRationale        *string `json:"risk_rationale"`
	PreliminaryRootCause *string `json:"preliminary_root_cause"`
}

func (req createEventRequest) input() eventuc.CreateEventInput {
	return eventuc.CreateEventInput{
		Title:                req.Title,
		Description:          req.Description,
		EventType:            req.EventType,
		Status:               req.Status,
		Initiator:            req.Initiator,
		Department:           req.Department,
		Reporter:             req.Reporter,
		Severity:             req.Severity,
		Priority:             req.Priority,
		EventDate:            req.EventDate,
		ResponsiblePerson:    req.ResponsiblePerson,
		DueDate:              req.DueDate,
		RiskRationale:        req.RiskRationale,
		PreliminaryRootCause: req.PreliminaryRootCause,
	}
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	created, err := h.events.Create(r.Context(), req.input())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if events == nil {
		events = []domainevent.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDParam(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	ev, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventIDParam(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var patch domainevent.Patch
	if err := decodeJSONBody(w, r, &patch); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	updated, err := h.events.Update(r.Context(), id, patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func eventIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainevent.ErrInvalidEventID
	}
	return id, nil
}

// decodeJSONBody decodes a single JSON object. Unknown fields are ignored.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if err == io.EOF {
			return errs.E(errs.KindValidation, "request body is required")
		}
		return errs.WithKind(errs.KindValidation, errs.Wrap(err, "invalid request body"))
	}
	if decoder.More() {
		return errs.E(errs.KindValidation, "request body must contain a single JSON object")
	}
	return nil
}
