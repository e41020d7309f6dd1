package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campustrade/campustrade-api/api/middleware"
	"github.com/campustrade/campustrade-api/internal/logger"
)

var (
	customLog = logger.NewLogger()

	timeNow = time.Now
)

// AccessTokenCookie carries the access token for page navigations, where the
// SPA cannot attach an Authorization header.
const AccessTokenCookie = "ct_access_token"

// bindJSON binds the body and attaches a 400-class error on failure.
// Validator errors are attached as-is; syntax errors are wrapped in ErrBadRequest.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		err = fmt.Errorf("%w: %v", middleware.ErrBadRequest, err)
	}
	customLog.Warnf("%s binding error: %v", c.FullPath(), err)
	_ = c.Error(err)
	return false
}
