package handler

import (
	"errors"
	"net/http"

	"trusthire/internal/domain/account"
	"trusthire/internal/domain/notification"
	"trusthire/internal/logger"
	"trusthire/internal/middleware"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondWithError is the single translation from errors to HTTP responses.
// Anything unrecognised becomes a 500 without internals.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, account.ErrAccountAlreadyExists):
		utils.ErrorResponse(c, http.StatusConflict, appErrors.CodeConflict, "User already exists")
	case errors.Is(err, account.ErrAccountNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, appErrors.CodeNotFound, "User not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, appErrors.CodeNotFound, "Notification not found")
	case errors.Is(err, account.ErrAlreadyVerified):
		utils.ErrorResponse(c, http.StatusBadRequest, appErrors.CodeAlreadyVerified, "Email already verified")
	case errors.Is(err, account.ErrInvalidCode):
		utils.ErrorResponse(c, http.StatusBadRequest, appErrors.CodeInvalidCode, "Invalid OTP")
	case errors.Is(err, account.ErrCodeExpired):
		utils.ErrorResponse(c, http.StatusBadRequest, appErrors.CodeCodeExpired, "OTP expired")
	case errors.Is(err, account.ErrVerificationRequired):
		utils.ErrorResponse(c, http.StatusForbidden, appErrors.CodeVerificationRequired, "Please verify your email first. Check your email for the OTP.")
	case errors.Is(err, account.ErrInvalidRole):
		utils.ErrorResponse(c, http.StatusBadRequest, appErrors.CodeValidation, "role must be one of [worker employer]")
	case errors.Is(err, appErrors.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.CodeInvalidCredentials, appErrors.AuthFailedMessage)
	case errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrTokenExpired),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.CodeUnauthorized, appErrors.AuthFailedMessage)
	case errors.Is(err, appErrors.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, appErrors.CodeForbidden, "Insufficient permissions")
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) && appErr.Code == appErrors.CodeValidation {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Code, appErr.Message)
			return
		}

		logger.WithRequestID(middleware.GetRequestID(c)).Error("Internal server error",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, appErrors.CodeInternal, "Internal server error")
	}
}

// bindJSON decodes the body into req, answering 413 for bodies cut off by the
// size limit and 400 for anything else malformed.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, appErrors.CodeRequestTooLarge, "Request body too large")
		return false
	}

	utils.ErrorResponse(c, http.StatusBadRequest, appErrors.CodeValidation, "Invalid request body")
	return false
}

func principal(c *gin.Context) (*middleware.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return p, true
}

func pathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, appErrors.CodeValidation, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
