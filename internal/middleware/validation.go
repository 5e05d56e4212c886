package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
)

// HandleBindError answers 400 for a request that failed binding or validation.
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(ValidationErrorDetail(err)))
}

// ValidationErrorDetail turns a binding error into an error detail listing the failed fields.
func ValidationErrorDetail(err error) *dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{Field: jsonFieldName(fe), Message: formatValidationError(fe)})
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fields[0].Message).WithDetails(fields)
		if len(fields) == 1 {
			detail.WithField(fields[0].Field)
		}
		return detail
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, typeErr.Field+" has an invalid type").
			WithField(typeErr.Field)
	}

	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	// gin's validator reports Go field names
	switch name {
	case "StudentID":
		return "studentId"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "datetime":
		return field + " must be a date formatted as " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
