package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the wire shape of every error this service emits. Code is a
// stable machine-readable token; Message is human-oriented and may change.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	apiErr := APIError{Code: code, Message: http.StatusText(status)}
	if err != nil {
		apiErr.Message = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: apiErr})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
