package middleware

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/izzico/izzico-backend/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)

	testCases := []struct {
		name               string
		err                error
		ginErrorType       gin.ErrorType
		expectedStatusCode int
		expectedBody       map[string]any
	}{
		{
			name:               "not found",
			err:                errors.NotFound("Expense", "exp-123"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusNotFound,
			expectedBody: map[string]any{
				"type":    "NOT_FOUND",
				"message": "Expense not found",
				"details": "ID: exp-123",
			},
		},
		{
			name:               "validation error",
			err:                errors.ValidationFailed("invalid expense amount", "amount cannot be negative"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"type":    "VALIDATION_ERROR",
				"message": "invalid expense amount",
				"details": "amount cannot be negative",
			},
		},
		{
			name:               "invalid split",
			err:                errors.InvalidSplit("percentages must sum to 100", "got 95"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"type":    "INVALID_SPLIT",
				"details": "got 95",
			},
		},
		{
			name:               "no payment method",
			err:                errors.NoPaymentMethod("user-1", "payee has no Revolut tag"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedBody: map[string]any{
				"type":    "NO_PAYMENT_METHOD",
				"details": "payee has no Revolut tag",
			},
		},
		{
			name:               "database error hides detail",
			err:                errors.Wrap(goerrors.New("connection refused"), errors.DatabaseError, "Database operation failed"),
			ginErrorType:       gin.ErrorTypePrivate,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: map[string]any{
				"type":    "DATABASE_ERROR",
				"message": "Database operation failed",
			},
		},
		{
			name:               "plain error",
			err:                goerrors.New("boom"),
			ginErrorType:       gin.ErrorTypePrivate,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: map[string]any{
				"type":    "SERVER_ERROR",
				"message": "Internal Server Error",
			},
		},
		{
			name:               "bind error",
			err:                goerrors.New("failed to bind JSON"),
			ginErrorType:       gin.ErrorTypeBind,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"type":    "VALIDATION_ERROR",
				"message": "Failed to bind request",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, r := gin.CreateTestContext(w)

			r.Use(ErrorHandler())
			r.GET("/test", func(ctx *gin.Context) {
				_ = ctx.Error(tc.err).SetType(tc.ginErrorType)
			})

			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatusCode, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for key, expected := range tc.expectedBody {
				assert.Equal(t, expected, body[key], "field %s", key)
			}
			if _, exists := tc.expectedBody["details"]; !exists {
				assert.NotContains(t, body, "details")
			}
		})
	}
}

func TestErrorHandler_RateLimited(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)

	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)

	r.Use(ErrorHandler())
	r.GET("/test", func(ctx *gin.Context) {
		_ = ctx.Error(errors.RateLimited("too many IBAN reveals, try again later", 900))
	})

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "900", w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body["type"])
	assert.Equal(t, float64(900), body["retry_after"])
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)

	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)

	r.Use(ErrorHandler())
	r.GET("/test", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "OK")
	})

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
