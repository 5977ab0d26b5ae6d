package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vardkurs/coursegen-backend/internal/apperrors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondAppError maps the error taxonomy onto a status and code. Quota
// errors keep the collaborator's original status (429 or 402) so the UI can
// distinguish rate limiting from exhausted credits.
func RespondAppError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	code := "internal_error"
	switch {
	case apperrors.IsValidation(err):
		code = "validation_error"
	case apperrors.IsQuota(err):
		code = "quota_exceeded"
		var qe *apperrors.QuotaError
		if errors.As(err, &qe) && qe.StatusCode == http.StatusPaymentRequired {
			status = http.StatusPaymentRequired
		}
	case apperrors.IsTransport(err):
		code = "upstream_error"
	}
	RespondError(c, status, code, err)
}
