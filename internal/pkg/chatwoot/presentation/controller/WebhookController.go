package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "zapcrm/internal/infrastructure/cache/port"
	qport "zapcrm/internal/infrastructure/queue/port"
	chatwoot "zapcrm/internal/pkg/chatwoot/application/domain"
	"zapcrm/internal/pkg/chatwoot/application/usecase"
	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
	"zapcrm/internal/pkg/conversation/persistence/repository/adapter"
	"zapcrm/pkg/respond"
)

// dedupeTTL bounds how long a delivery id is remembered. Chatwoot retries
// within minutes; an hour is comfortably past its retry horizon.
const dedupeTTL = time.Hour

// WebhookController receives Chatwoot webhook deliveries and feeds them to the
// human-reply use case. Every recognized delivery is acked with 200, including
// skipped ones, so the inbox platform never retries on classification.
type WebhookController struct {
	UC    *usecase.HumanReplyUseCase
	Cache cacheport.Cache
	Log   *slog.Logger
}

func NewWebhookController(pool *pgxpool.Pool, fallbackCompanyID int64, queue qport.Client, cache cacheport.Cache, pub convusecase.Publisher, log *slog.Logger) *WebhookController {
	repo := adapter.NewPgConversationRepository(pool, fallbackCompanyID)
	return &WebhookController{
		UC:    usecase.NewHumanReplyUseCase(repo, queue, pub, log),
		Cache: cache,
		Log:   log,
	}
}

func (h *WebhookController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload chatwoot.Payload
		if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
			respond.Fail(c, 400, "invalid JSON body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if h.isDuplicate(ctx, payload) {
			respond.OK(c, usecase.HumanReplyOutput{Skip: "duplicate_delivery"})
			return
		}

		out, err := h.UC.Execute(ctx, payload)
		if err != nil {
			respondError(c, err)
			return
		}

		respond.OK(c, out)
	}
}

// isDuplicate performs first-writer-wins dedupe on the delivery's message id.
// A missing cache or id disables dedupe rather than failing the webhook, and
// cache errors are treated as "not seen" since the store write is idempotent.
func (h *WebhookController) isDuplicate(ctx context.Context, p chatwoot.Payload) bool {
	if h.Cache == nil {
		return false
	}
	id := p.String("id")
	if id == "" {
		id = p.String("message", "id")
	}
	if id == "" {
		return false
	}
	fresh, err := h.Cache.SetNX(ctx, "chatwoot:delivery:"+id, "1", dedupeTTL)
	if err != nil {
		if h.Log != nil {
			h.Log.Warn("webhook dedupe cache unavailable", "error", err)
		}
		return false
	}
	return !fresh
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, convusecase.ErrPersistence) {
		respond.Fail(c, 500, "internal error")
		return
	}
	respond.Fail(c, 400, err.Error())
}
