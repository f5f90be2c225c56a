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

// LockController handles the post-AI-reply cooldown lock endpoint
type LockController struct {
	UC *usecase.LockCooldownUseCase
}

func NewLockController(pool *pgxpool.Pool, fallbackCompanyID int64) *LockController {
	repo := adapter.NewPgConversationRepository(pool, fallbackCompanyID)
	return &LockController{UC: usecase.NewLockCooldownUseCase(repo)}
}

type lockRequest struct {
	ConversationID  int64  `json:"conversation_id"`
	CompanyID       int64  `json:"company_id"`
	Phone           string `json:"phone"`
	CooldownMinutes *int   `json:"cooldown_minutes"`
}

type lockResponse struct {
	ConversationID  int64     `json:"conversation_id"`
	CooldownMinutes int       `json:"cooldown_minutes"`
	NextAllowedAt   time.Time `json:"next_allowed_at"`
}

func (h *LockController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, 400, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.LockCooldownInput{
			ConversationID:  req.ConversationID,
			CompanyID:       req.CompanyID,
			Phone:           req.Phone,
			OverrideMinutes: req.CooldownMinutes,
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
