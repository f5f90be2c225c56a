package controller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/pkg/relay/application/usecase"
	"zapcrm/pkg/respond"
)

// SendMessageController handles the outbound relay endpoint (one controller per endpoint)
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(uc *usecase.SendMessageUseCase) *SendMessageController {
	return &SendMessageController{UC: uc}
}

type sendMessageRequest struct {
	CompanyID int64  `json:"company_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Text      string `json:"text" binding:"required"`
	Actor     string `json:"actor"`
}

type sendMessageResponse struct {
	Gateway        string `json:"gateway"`
	Phone          string `json:"phone"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	MessageID      int64  `json:"message_id,omitempty"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, 400, err.Error())
			return
		}

		// delivery crosses the public internet, so the budget is wider than
		// the store-only endpoints
		ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			CompanyID: req.CompanyID,
			Phone:     req.Phone,
			Text:      req.Text,
			Actor:     req.Actor,
		})
		if err != nil {
			respond.Error(c, err)
			return
		}

		respond.OK(c, sendMessageResponse{
			Gateway:        out.Gateway,
			Phone:          out.Phone,
			ConversationID: out.ConversationID,
			MessageID:      out.MessageID,
		})
	}
}
