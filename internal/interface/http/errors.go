package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/pkg/response"
	"github.com/abhishekverma0700/eduavaa/pkg/validation"
)

// failService maps application errors onto the response envelope.
// Upstream and storage failures are logged and reported generically.
func failService(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidAmount):
		response.Fail(c, http.StatusBadRequest, "invalid amount", "invalid_amount", nil)
	case errors.Is(err, application.ErrInvalidUnlock):
		response.Fail(c, http.StatusBadRequest, "invalid unlock request", "invalid_request", nil)
	case errors.Is(err, application.ErrInvalidSignature):
		response.Fail(c, http.StatusUnauthorized, "payment verification failed", "invalid_signature", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Fail(c, http.StatusForbidden, "forbidden", "forbidden", nil)
	case errors.Is(err, application.ErrNotUnlocked):
		response.Fail(c, http.StatusForbidden, "asset not unlocked", "not_unlocked", nil)
	case errors.Is(err, application.ErrUnknownCategory):
		response.Fail(c, http.StatusNotFound, "unknown category", "not_found", nil)
	case errors.Is(err, application.ErrSigningUnavailable):
		logError(c, logger, err)
		response.Fail(c, http.StatusServiceUnavailable, "download links unavailable", "unavailable", nil)
	case errors.Is(err, application.ErrGateway):
		logError(c, logger, err)
		response.Fail(c, http.StatusBadGateway, "payment gateway error", "gateway_error", nil)
	case errors.Is(err, application.ErrNothingUnlocked):
		response.Fail(c, http.StatusInternalServerError, "payment received but unlock failed, contact support", "unlock_failed", nil)
	default:
		logError(c, logger, err)
		response.Fail(c, http.StatusInternalServerError, "internal error", "internal", nil)
	}
}

func failBinding(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "invalid payload", "validation_error", validation.ToDetails(err))
}

func logError(c *gin.Context, logger *logrus.Logger, err error) {
	if logger == nil {
		return
	}
	logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	}).WithError(err).Error("request failed")
}
