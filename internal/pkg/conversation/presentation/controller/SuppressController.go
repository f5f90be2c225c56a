package controller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapcrm/internal/pkg/conversation/application/usecase"
	"zapcrm/internal/pkg/conversation/persistence/repository/adapter"
	"zapcrm/pkg/respond"
)

// SuppressController handles the explicit "mute the AI" endpoint used by
// operator tooling.
type SuppressController struct {
	UC *usecase.SuppressUseCase
}

func NewSuppressController(pool *pgxpool.Pool, fallbackCompanyID int64) *SuppressController {
	repo := adapter.NewPgConversationRepository(pool, fallbackCompanyID)
	return &SuppressController{UC: usecase.NewSuppressUseCase(repo)}
}

type suppressRequest struct {
	CompanyID int64  `json:"company_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Minutes   int    `json:"minutes" binding:"required"`
}

func (h *SuppressController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req suppressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, 400, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.SuppressInput{
			CompanyID: req.CompanyID,
			Phone:     req.Phone,
			Minutes:   req.Minutes,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		respond.OK(c, lockResponse{
			ConversationID:  res.ConversationID,
			CooldownMinutes: res.CooldownMinutes,
			NextAllowedAt:   res.NextAllowedAt,
		})
	}
}
