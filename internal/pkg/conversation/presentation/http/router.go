package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapcrm/internal/pkg/conversation/application/usecase"
	"zapcrm/internal/pkg/conversation/presentation/controller"
)

// RegisterRoutes registers gating and ingest endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, fallbackCompanyID int64, pub usecase.Publisher) {
	gateCtl := controller.NewGateCheckController(pool, fallbackCompanyID)
	lockCtl := controller.NewLockController(pool, fallbackCompanyID)
	suppressCtl := controller.NewSuppressController(pool, fallbackCompanyID)
	ingestCtl := controller.NewIngestController(pool, fallbackCompanyID, pub)

	// POST /api/v1/gate/check -> may the AI respond to this contact
	g.POST("/gate/check", gateCtl.Handle())

	// POST /api/v1/gate/lock -> establish the next cooldown deadline after an AI reply
	g.POST("/gate/lock", lockCtl.Handle())

	// POST /api/v1/gate/suppress -> manually silence the AI for N minutes
	g.POST("/gate/suppress", suppressCtl.Handle())

	// POST /api/v1/messages/ingest -> record an inbound chat message
	g.POST("/messages/ingest", ingestCtl.Handle())
}
