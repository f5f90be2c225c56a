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

// GateCheckController handles the "may the AI respond" endpoint (one controller per endpoint)
type GateCheckController struct {
	UC *usecase.GateCheckUseCase
}

func NewGateCheckController(pool *pgxpool.Pool, fallbackCompanyID int64) *GateCheckController {
	repo := adapter.NewPgConversationRepository(pool, fallbackCompanyID)
	return &GateCheckController{UC: usecase.NewGateCheckUseCase(repo)}
}

type gateCheckRequest struct {
	CompanyID int64  `json:"company_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type gateCheckResponse struct {
	Allow             bool       `json:"allow"`
	Reason            string     `json:"reason"`
	ConversationID    *int64     `json:"conversation_id"`
	CooldownMinutes   int        `json:"cooldown_minutes"`
	HumanBlockMinutes int        `json:"human_block_minutes"`
	NextAllowedAt     *time.Time `json:"next_allowed_at"`
}

func (h *GateCheckController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req gateCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, 400, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		d, err := h.UC.Execute(ctx, usecase.GateCheckInput{CompanyID: req.CompanyID, Phone: req.Phone})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		respond.OK(c, gateCheckResponse{
			Allow:             d.Allow,
			Reason:            string(d.Reason),
			ConversationID:    d.ConversationID,
			CooldownMinutes:   d.CooldownMinutes,
			HumanBlockMinutes: d.HumanBlockMinutes,
			NextAllowedAt:     d.WaitUntil,
		})
	}
}
