package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zapcrm/pkg/apperrors"
)

// Envelope is the uniform response body shared by every endpoint:
// a success flag, the payload on success, an error string on failure.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// Error maps an application error to the envelope and status code.
func Error(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	c.JSON(apperrors.HTTPStatus(appErr.Code), Envelope{Success: false, Error: appErr.Message})
}
