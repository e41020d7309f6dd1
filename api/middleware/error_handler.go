// api/middleware/error_handler.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/core"
	"github.com/campustrade/campustrade-api/internal/files"
	"github.com/campustrade/campustrade-api/internal/storage"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error shapes the response.
		err := c.Errors.Last().Err
		customLog.Debugf("[ErrorHandler] Detected error: %v | Type: %T", err, err)

		statusCode, userMessage := classify(err)
		if statusCode == http.StatusInternalServerError {
			customLog.Errorf("[ErrorHandler] Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		} else {
			customLog.Warnf("[ErrorHandler] Response already written before handling error: %v", err)
		}
	}
}

func classify(err error) (int, string) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, storage.ErrEmailExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, storage.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."

	case errors.Is(err, auth.ErrRefreshTokenInvalid):
		return http.StatusUnauthorized, "Refresh token is invalid or expired."

	case errors.Is(err, auth.ErrTokenMissing):
		return http.StatusUnauthorized, "Authorization header required."

	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Authentication token has expired."

	case errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized, "Authentication token has been revoked."

	case errors.Is(err, auth.ErrInsecureTransport):
		return http.StatusUnauthorized, "Bearer authentication requires HTTPS."

	case errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenClaimsInvalid),
		errors.Is(err, auth.ErrUnexpectedSigningMethod),
		errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid or malformed authentication token."

	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to access this resource."

	case errors.As(err, &validationErrs):
		for _, fe := range validationErrs {
			customLog.Debugf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
		}
		return http.StatusBadRequest, "Validation failed. Please check your input."

	case errors.Is(err, core.ErrInvalidQuery):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, files.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()

	case errors.Is(err, files.ErrEmptyFile),
		errors.Is(err, files.ErrExtensionNotAllowed),
		errors.Is(err, files.ErrContentTypeMismatch),
		errors.Is(err, files.ErrInvalidPath):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, err.Error()

	default:
		return http.StatusInternalServerError, "An unexpected internal server error occurred."
	}
}

// ErrBadRequest marks malformed request bodies that are not validator errors
// (invalid JSON, missing multipart parts).
var ErrBadRequest = errors.New("bad request")
