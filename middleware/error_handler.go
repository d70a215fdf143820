package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/logger"
)

// ErrorResponse is the JSON error envelope returned for all failed requests.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler translates errors attached to the gin context into the JSON
// error envelope. Handlers attach errors with c.Error and return; this runs
// after them and writes the response once.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		log := logger.GetLogger()

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()

			logFn := log.Warnw
			if statusCode >= 500 {
				logFn = log.Errorw
			}
			logFn("Request failed",
				"error_type", string(appError.Type),
				"error_message", appError.Message,
				"status", statusCode,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"client_ip", c.ClientIP(),
			)

			response := gin.H{
				"type":    string(appError.Type),
				"message": appError.Message,
				"code":    strconv.Itoa(statusCode),
			}

			// Details only leave the server for client-correctable errors.
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == errors.ValidationError ||
				appError.Type == errors.InvalidSplitError ||
				appError.Type == errors.NoPaymentMethodError ||
				appError.Type == errors.NotFoundError) {
				response["details"] = appError.Detail
			}

			if appError.Type == errors.RateLimitedError && appError.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(appError.RetryAfter))
				response["retry_after"] = appError.RetryAfter
			}

			c.JSON(statusCode, response)
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypeBind {
			log.Warnw("Request binding error", "error", err, "path", c.Request.URL.Path)

			response := gin.H{
				"type":    string(errors.ValidationError),
				"message": "Failed to bind request",
				"code":    "400",
			}
			if gin.IsDebugging() {
				response["details"] = err.Error()
			}
			c.JSON(400, response)
			return
		}

		log.Errorw("Unexpected server error",
			"error", err,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)

		response := gin.H{
			"type":    string(errors.ServerError),
			"message": "Internal Server Error",
			"code":    "500",
		}
		if gin.IsDebugging() {
			response["details"] = err.Error()
		}
		c.JSON(500, response)
	}
}
