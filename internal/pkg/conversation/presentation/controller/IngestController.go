package controller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
	"zapcrm/internal/pkg/conversation/application/usecase"
	"zapcrm/internal/pkg/conversation/persistence/repository/adapter"
	"zapcrm/pkg/respond"
)

// IngestController records an inbound chat message, creating the conversation
// on first contact.
type IngestController struct {
	UC *usecase.IngestMessageUseCase
}

func NewIngestController(pool *pgxpool.Pool, fallbackCompanyID int64, pub usecase.Publisher) *IngestController {
	repo := adapter.NewPgConversationRepository(pool, fallbackCompanyID)
	return &IngestController{UC: usecase.NewIngestMessageUseCase(repo, pub)}
}

type ingestRequest struct {
	CompanyID int64  `json:"company_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Name      string `json:"name"`
	Message   string `json:"message" binding:"required"`
}

type ingestResponse struct {
	ConversationID int64  `json:"conversation_id"`
	MessageID      int64  `json:"message_id"`
	Phone          string `json:"phone"`
	Status         string `json:"status"`
}

func (h *IngestController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, 400, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.IngestMessageInput{
			CompanyID: req.CompanyID,
			Phone:     req.Phone,
			Name:      req.Name,
			Body:      req.Message,
			Direction: conversation.DirectionIn,
			Actor:     conversation.ActorContact,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		respond.Created(c, ingestResponse{
			ConversationID: out.Conversation.ID,
			MessageID:      out.MessageID,
			Phone:          out.Conversation.Phone,
			Status:         out.Conversation.Status,
		})
	}
}
