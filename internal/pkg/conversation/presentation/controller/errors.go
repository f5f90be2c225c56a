package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/pkg/conversation/application/usecase"
	"zapcrm/pkg/respond"
)

// respondUseCaseError maps use case failures onto the shared envelope. The
// underlying error text is surfaced on 500s for operator diagnosis; this is
// internal tooling, not a public API.
func respondUseCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		respond.Fail(c, http.StatusInternalServerError, err.Error())
	case errors.Is(err, usecase.ErrConversationNotFound):
		respond.Fail(c, http.StatusNotFound, err.Error())
	default:
		respond.Fail(c, http.StatusBadRequest, err.Error())
	}
}
