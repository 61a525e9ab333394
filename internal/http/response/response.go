// Package response maps pipeline errors onto the JSON error body the portal
// frontend expects.
package response

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/campusforge/portal-export/internal/platform/apierr"
)

const maxStackChars = 2000

// ErrorBody is the flat failure payload: a short summary under "error" and
// the longer actionable diagnostic under "message".
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	// Stack and Type are only populated outside production.
	Stack string `json:"stack,omitempty"`
	Type  string `json:"type,omitempty"`
}

// RespondError writes the failure body for any error. Classified errors
// carry their own status; everything else is a 500 "unknown".
func RespondError(c *gin.Context, err error) {
	var classified *apierr.Error
	if !errors.As(err, &classified) {
		classified = apierr.New(apierr.KindUnknown, "unknown error", err)
	}

	body := ErrorBody{
		Error:   classified.Summary,
		Message: classified.Error(),
		Details: classified.Details,
	}
	if body.Error == "" {
		body.Error = string(classified.Kind)
	}
	if os.Getenv("APP_ENV") != "production" {
		body.Type = string(classified.Kind)
		if cause := classified.Unwrap(); cause != nil {
			stack := cause.Error()
			if len(stack) > maxStackChars {
				stack = stack[:maxStackChars]
			}
			body.Stack = stack
		}
	}

	c.JSON(classified.Status(), body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
