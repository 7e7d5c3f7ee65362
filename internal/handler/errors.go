package handler

import (
	"context"
	"errors"
	"net/http"

	"faqforge/internal/domain"
	"faqforge/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Stage-tagged errors
// carry their pipeline stage as an extra field so clients can tell a bad
// upload from a store failure.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		detail := err.Error()
		if httpErr.StatusCode() == http.StatusInternalServerError {
			// Persistence details stay in the logs
			detail = "internal server error"
		}

		var stageErr domain.StageError
		if errors.As(err, &stageErr) {
			httputil.RespondErrorWithExtras(w, httpErr.StatusCode(), detail, map[string]interface{}{
				"stage": stageErr.Stage(),
			})
			return
		}
		httputil.RespondError(w, httpErr.StatusCode(), detail)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		httputil.RespondError(w, http.StatusGatewayTimeout, "pipeline run timed out")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
