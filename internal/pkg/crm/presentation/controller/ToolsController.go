package controller

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "zapcrm/internal/infrastructure/cache/port"
	"zapcrm/internal/pkg/crm/application/usecase"
	"zapcrm/internal/pkg/crm/persistence/repository/adapter"
	"zapcrm/pkg/respond"
)

// ToolsController handles the AI tool-calling endpoint (one controller per endpoint)
type ToolsController struct {
	Registry *usecase.ToolRegistry
}

func NewToolsController(pool *pgxpool.Pool, cache cacheport.Cache) *ToolsController {
	repo := adapter.NewPgCrmRepository(pool)
	return &ToolsController{Registry: usecase.NewToolRegistry(repo, cache)}
}

type toolRequest struct {
	Tool string          `json:"tool" binding:"required"`
	Args json.RawMessage `json:"args"`
}

func (h *ToolsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req toolRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Fail(c, 400, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		out, err := h.Registry.Dispatch(ctx, usecase.ToolKind(req.Tool), req.Args)
		if err != nil {
			respond.Error(c, err)
			return
		}

		respond.OK(c, out)
	}
}

// ListTools reports the available tool names so agents can discover the surface.
func (h *ToolsController) ListTools() gin.HandlerFunc {
	return func(c *gin.Context) {
		respond.OK(c, gin.H{"tools": h.Registry.Kinds()})
	}
}
