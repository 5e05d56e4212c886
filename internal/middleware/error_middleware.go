package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var message, field string
	var details map[string]interface{}
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		message, field, details = custom.Message, custom.Field, custom.Details
	}
	pick := func(fallback string) string {
		if message != "" {
			return message
		}
		return fallback
	}

	var detail *dto.ErrorDetail
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrBranchRequired):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeBranchRequired, pick("Branch is required"))
	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, pick("Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, pick("Bad request"))
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, pick("Resource not found"))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		status = http.StatusConflict
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, pick("Resource already exists"))
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		detail = dto.NewErrorDetail(dto.ErrorCodeConflict, pick("Conflicting update, please retry"))
	default:
		return status, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}

	if field != "" {
		detail.WithField(field)
	}
	if len(details) > 0 {
		detail.WithDetails(details)
	}
	return status, detail
}
