package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "zapcrm/internal/infrastructure/cache/port"
	qport "zapcrm/internal/infrastructure/queue/port"
	"zapcrm/internal/pkg/chatwoot/presentation/controller"
	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
)

// RegisterRoutes mounts the Chatwoot webhook endpoint. Signature verification
// is applied by the caller as route middleware so the raw body is checked
// before any parsing happens here.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, fallbackCompanyID int64, queue qport.Client, cache cacheport.Cache, pub convusecase.Publisher, log *slog.Logger, mw ...gin.HandlerFunc) {
	webhookCtl := controller.NewWebhookController(pool, fallbackCompanyID, queue, cache, pub, log)

	handlers := append(append([]gin.HandlerFunc{}, mw...), webhookCtl.Handle())

	// POST /api/v1/webhooks/chatwoot -> human agent reply observer
	g.POST("/webhooks/chatwoot", handlers...)
}
