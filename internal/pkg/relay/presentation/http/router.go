package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
	repoAdapter "zapcrm/internal/pkg/conversation/persistence/repository/adapter"
	"zapcrm/internal/pkg/relay/application/usecase"
	"zapcrm/internal/pkg/relay/presentation/controller"
	"zapcrm/internal/pkg/relay/transport/port"
)

// RegisterRoutes mounts the outbound relay endpoint. Callers skip registration
// entirely when no gateway is configured.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, fallbackCompanyID int64, sender port.Sender, pub convusecase.Publisher, log *slog.Logger) {
	repo := repoAdapter.NewPgConversationRepository(pool, fallbackCompanyID)
	ingest := convusecase.NewIngestMessageUseCase(repo, pub)
	sendCtl := controller.NewSendMessageController(usecase.NewSendMessageUseCase(sender, ingest, log))

	// POST /api/v1/messages/send -> relay an outbound WhatsApp message
	g.POST("/messages/send", sendCtl.Handle())
}
