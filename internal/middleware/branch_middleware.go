package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

const (
	// BranchHeader carries the branch a request operates on
	BranchHeader = "X-Branch-ID"
	// BranchQueryParam is the fallback when the header is absent
	BranchQueryParam = "branchId"

	branchContextKey = "branchID"
)

// BranchScope resolves the request's branch and rejects requests without a known one.
func BranchScope(branches repositories.BranchStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		branchID := strings.TrimSpace(c.GetHeader(BranchHeader))
		if branchID == "" {
			branchID = strings.TrimSpace(c.Query(BranchQueryParam))
		}

		if branchID == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeBranchRequired, "Branch is required").
				WithDetails("Set the " + BranchHeader + " header or the " + BranchQueryParam + " query parameter")
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		if _, err := branches.GetBranch(c.Request.Context(), branchID); err != nil {
			if errors.Is(err, apperrors.ErrBranchNotFound) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Branch not found").
					WithField(BranchQueryParam).
					WithDetails(branchID)
				c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
				return
			}
			HandleAPIError(c, err)
			return
		}

		c.Set(branchContextKey, branchID)
		c.Next()
	}
}

// BranchID returns the branch resolved by BranchScope
func BranchID(c *gin.Context) string {
	return c.GetString(branchContextKey)
}
