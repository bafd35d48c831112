package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"tessera/internal/domain"
	"tessera/internal/httputil"
)

// handleError converts domain errors to problem responses. Typed errors
// carry their own status; sentinels are matched with errors.Is.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		httpErr  domain.HTTPError
		conflict *domain.ConflictError
	)

	switch {
	case errors.As(err, &conflict):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflict.Error(), map[string]interface{}{
			"resource_type": conflict.ResourceType,
			"resource_id":   conflict.ResourceID,
		})
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
