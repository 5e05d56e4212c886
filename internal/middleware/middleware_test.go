package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories/inmem"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorDetailFor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError dto.ErrorCode
		wantField string
	}{
		{
			name:      "branch required",
			err:       apperrors.NewValidationError("branchId", apperrors.ErrBranchRequired, "branch is required"),
			wantCode:  http.StatusBadRequest,
			wantError: dto.ErrorCodeBranchRequired,
			wantField: "branchId",
		},
		{
			name:      "validation",
			err:       apperrors.NewValidationError("amount", apperrors.ErrNegativeAmount, "amount cannot be negative"),
			wantCode:  http.StatusBadRequest,
			wantError: dto.ErrorCodeValidationFailed,
			wantField: "amount",
		},
		{name: "bad request", err: apperrors.NewBadRequestError("nope"), wantCode: http.StatusBadRequest, wantError: dto.ErrorCodeResourceInvalid},
		{name: "not found", err: apperrors.NewNotFoundError(apperrors.ErrPaymentNotFound, "payment p1 not found"), wantCode: http.StatusNotFound, wantError: dto.ErrorCodeResourceNotFound},
		{name: "bare not found sentinel", err: apperrors.ErrStudentNotFound, wantCode: http.StatusNotFound, wantError: dto.ErrorCodeResourceNotFound},
		{name: "already exists", err: apperrors.NewAlreadyExistsError("dup"), wantCode: http.StatusConflict, wantError: dto.ErrorCodeResourceAlreadyExists},
		{name: "conflict", err: apperrors.NewConflictError("retry"), wantCode: http.StatusConflict, wantError: dto.ErrorCodeConflict},
		{name: "unknown", err: errors.New("connection reset"), wantCode: http.StatusInternalServerError, wantError: dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := errorDetailFor(tt.err)
			assert.Equal(t, tt.wantCode, status)
			assert.Equal(t, tt.wantError, detail.Code)
			assert.Equal(t, tt.wantField, detail.Field)
			assert.NotEmpty(t, detail.Message)
		})
	}

	_, detail := errorDetailFor(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", detail.Message)
}

func TestHandleAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/payments/p1", nil)

	HandleAPIError(c, apperrors.NewNotFoundError(apperrors.ErrPaymentNotFound, "payment p1 not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, c.IsAborted())

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "payment p1 not found", body.Error.Message)
}

type bindTarget struct {
	StudentID string           `json:"studentId" binding:"required"`
	Month     int              `json:"month" binding:"required,min=1,max=12"`
	Method    string           `json:"paymentMethod" binding:"omitempty,oneof=cash card"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
}

func TestValidationErrorDetail(t *testing.T) {
	bind := func(body string) error {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var target bindTarget
		return c.ShouldBindJSON(&target)
	}

	tests := []struct {
		name        string
		body        string
		wantField   string
		wantMessage string
	}{
		{name: "missing student", body: `{"month":1,"amount":10}`, wantField: "studentId", wantMessage: "studentId is required"},
		{name: "month too large", body: `{"studentId":"s","month":13,"amount":10}`, wantField: "month", wantMessage: "month must be at most 12"},
		{name: "bad method", body: `{"studentId":"s","month":1,"amount":10,"paymentMethod":"cheque"}`, wantField: "method", wantMessage: "method must be one of: cash card"},
		{name: "missing amount", body: `{"studentId":"s","month":1}`, wantField: "amount", wantMessage: "amount is required"},
		{name: "wrong type", body: `{"studentId":"s","month":"three","amount":10}`, wantField: "month", wantMessage: "month has an invalid type"},
		{name: "malformed amount", body: `{"studentId":"s","month":1,"amount":"ten"}`, wantMessage: "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bind(tt.body)
			require.Error(t, err)
			detail := ValidationErrorDetail(err)
			assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
			assert.Equal(t, tt.wantField, detail.Field)
			assert.Equal(t, tt.wantMessage, detail.Message)
		})
	}
}

func TestBranchScope(t *testing.T) {
	repos := inmem.NewRepositories()
	require.NoError(t, repos.BranchRepository.CreateBranch(context.Background(), &models.Branch{ID: "main", Name: "Main"}))

	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()), BranchScope(repos.BranchRepository))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, BranchID(c))
	})

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantBody string
		wantErr  dto.ErrorCode
	}{
		{name: "header", header: "main", wantCode: http.StatusOK, wantBody: "main"},
		{name: "query", query: "?branchId=main", wantCode: http.StatusOK, wantBody: "main"},
		{name: "header wins", header: " main ", query: "?branchId=north", wantCode: http.StatusOK, wantBody: "main"},
		{name: "missing", wantCode: http.StatusBadRequest, wantErr: dto.ErrorCodeBranchRequired},
		{name: "unknown", header: "north", wantCode: http.StatusNotFound, wantErr: dto.ErrorCodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(BranchHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr == "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body.Error.Code)
		})
	}
}
