package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/pagination"
)

// ExposeInternalErrors controls whether the cause of a 500 is echoed in the
// error field. Set once at startup from server.expose_internal_errors.
var ExposeInternalErrors = true

// Response wraps all API responses
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var fieldMessages = map[string]string{
	"required":   "Field is required",
	"email":      "Invalid email format",
	"min":        "Value is too short",
	"max":        "Value is too long",
	"oneof":      "Value is not allowed",
	"gte":        "Value is too small",
	"bloodgroup": "Invalid blood group",
	"weekday":    "Invalid day of week",
	"datetime":   "Invalid date",
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal("Internal server error", err)
	}

	status := appErr.HTTPStatus()
	resp := Response{
		Success: false,
		Message: appErr.Message,
	}
	if status == http.StatusBadRequest {
		resp.Errors = fieldErrors(appErr.Err)
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(appErr.Message)
		if ExposeInternalErrors && appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
	}

	c.AbortWithStatusJSON(status, resp)
}

// RespondWithBindingError reports a failed ShouldBind* call as a 400.
func RespondWithBindingError(c *gin.Context, err error) {
	if fields := fieldErrors(err); fields != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "Validation failed",
			Errors:  fields,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "Invalid request body",
		Error:   err.Error(),
	})
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if err == nil || !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		msg := fieldMessages[e.Tag()]
		if msg == "" {
			msg = fmt.Sprintf("failed on %s", e.Tag())
		}
		fields = append(fields, FieldError{Field: e.Field(), Message: msg})
	}
	return fields
}

// RespondWithPagination sends a page of items under key along with its
// pagination block.
func RespondWithPagination(c *gin.Context, key string, items interface{}, p pagination.Params, total int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			key:          items,
			"pagination": p.Meta(total),
		},
	})
}
