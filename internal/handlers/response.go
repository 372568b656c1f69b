package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/gamevault/pkg/errors"
	"github.com/mroshb/gamevault/pkg/logger"
)

var statusByCode = map[string]int{
	errors.ErrCodeValidation:         http.StatusBadRequest,
	errors.ErrCodeUnauthorized:       http.StatusUnauthorized,
	errors.ErrCodeForbidden:          http.StatusForbidden,
	errors.ErrCodeNotFound:           http.StatusNotFound,
	errors.ErrCodeConflict:           http.StatusConflict,
	errors.ErrCodeInsufficientPoints: http.StatusPaymentRequired,
	errors.ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	errors.ErrCodeRateLimitExceeded:  http.StatusTooManyRequests,
	errors.ErrCodeInternalError:      http.StatusInternalServerError,
}

// respondError maps an application error to its HTTP status. Internal
// errors keep their detail in the log only.
func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if appErr, isApp := err.(*errors.AppError); isApp {
		message = appErr.Message
	}
	if code == errors.ErrCodeInternalError {
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
		message = "internal error"
	}

	c.JSON(status, gin.H{"error": message, "code": code})
}

func respondValidation(c *gin.Context, message string) {
	respondError(c, errors.New(errors.ErrCodeValidation, message))
}
