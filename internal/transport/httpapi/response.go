package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"qmsevents/internal/bootstrap/logging"
	domainevent "qmsevents/internal/domain/event"
	"qmsevents/internal/errs"
)

const (
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeUpstream         = "upstream_error"
	codeInternal         = "internal_error"
	codeMethodNotAllowed = "method_not_allowed"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeErrorResponse(w http.ResponseWriter, status int, code string, detail string) {
	writeJSON(w, status, errorResponse{Error: code, Detail: detail})
}

// writeError maps an error kind to status and body. Internal errors are logged
// and answered with a generic message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		writeErrorResponse(w, http.StatusBadRequest, codeBadRequest, rootMessage(err))
	case errs.KindNotFound:
		detail := rootMessage(err)
		if errors.Is(err, domainevent.ErrEventNotFound) {
			detail = "Event not found"
		}
		writeErrorResponse(w, http.StatusNotFound, codeNotFound, detail)
	case errs.KindUpstream:
		writeErrorResponse(w, http.StatusInternalServerError, codeUpstream, rootMessage(err))
	default:
		logging.Error(ctx, "request failed", slog.Any("err", errs.Loggable(err)))
		writeErrorResponse(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// rootMessage returns the message of the kinded error without the wrap
// context added on the way up.
func rootMessage(err error) string {
	var ke *errs.KindError
	if errors.As(err, &ke) {
		return ke.Error()
	}
	return err.Error()
}
