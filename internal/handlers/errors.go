package handlers

import (
	"errors"
	"net/http"

	"game-service/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError translates domain error kinds into HTTP responses. Storage
// failures deliberately surface as opaque 500s.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, apperrors.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, apperrors.ErrInvalidConfig):
		status, code = http.StatusBadRequest, "INVALID_CONFIG"
	case errors.Is(err, apperrors.ErrNotStarted):
		status, code = http.StatusConflict, "NOT_STARTED"
	case errors.Is(err, apperrors.ErrExpired):
		status, code = http.StatusConflict, "EXPIRED"
	case errors.Is(err, apperrors.ErrOutOfOrder):
		status, code = http.StatusConflict, "OUT_OF_ORDER"
	case errors.Is(err, apperrors.ErrAlreadyFinished):
		status, code = http.StatusConflict, "ALREADY_FINISHED"
	case errors.Is(err, apperrors.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	}

	body := gin.H{"code": code}
	if status == http.StatusInternalServerError {
		body["error"] = "internal error"
	} else {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}
