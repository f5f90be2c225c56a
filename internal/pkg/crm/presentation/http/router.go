package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "zapcrm/internal/infrastructure/cache/port"
	"zapcrm/internal/pkg/crm/presentation/controller"
)

// RegisterRoutes mounts the AI tool-calling surface.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, cache cacheport.Cache) {
	toolsCtl := controller.NewToolsController(pool, cache)

	// POST /api/v1/tools -> dispatch one tool call {tool, args}
	g.POST("/tools", toolsCtl.Handle())

	// GET /api/v1/tools -> list available tool names
	g.GET("/tools", toolsCtl.ListTools())
}
