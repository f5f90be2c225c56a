package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapcrm/internal/config"
	cacheport "zapcrm/internal/infrastructure/cache/port"
	qport "zapcrm/internal/infrastructure/queue/port"
	"zapcrm/internal/middleware"
	chatwootHTTP "zapcrm/internal/pkg/chatwoot/presentation/http"
	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
	conversationHTTP "zapcrm/internal/pkg/conversation/presentation/http"
	crmHTTP "zapcrm/internal/pkg/crm/presentation/http"
	"zapcrm/internal/pkg/operator"
	relayHTTP "zapcrm/internal/pkg/relay/presentation/http"
	relayAdapter "zapcrm/internal/pkg/relay/transport/adapter"
)

// Deps carries everything the route tree needs. Cache and Queue are optional;
// endpoints that depend on them degrade (no dedupe, no async audit) rather
// than refuse to start.
type Deps struct {
	Cfg   *config.Config
	Pool  *pgxpool.Pool
	Cache cacheport.Cache
	Queue qport.Client
	Feed  *operator.Feed
	Log   *slog.Logger
}

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")

	// gating, ingest and tool endpoints require the service token
	authed := v1.Group("", middleware.APIToken(d.Cfg.APIToken))
	conversationHTTP.RegisterRoutes(authed, d.Pool, d.Cfg.FallbackCompanyID, feedOrNil(d.Feed))
	crmHTTP.RegisterRoutes(authed, d.Pool, d.Cache)

	if sender := relayAdapter.SelectSender(d.Cfg); sender != nil {
		relayHTTP.RegisterRoutes(authed, d.Pool, d.Cfg.FallbackCompanyID, sender, feedOrNil(d.Feed), d.Log)
	} else if d.Log != nil {
		d.Log.Warn("no outbound gateway configured; relay endpoint not mounted")
	}

	// the webhook authenticates by signature over the raw body, not by token,
	// and is rate limited per upstream client
	chatwootHTTP.RegisterRoutes(v1, d.Pool, d.Cfg.FallbackCompanyID, d.Queue, d.Cache, feedOrNil(d.Feed), d.Log,
		middleware.PerClientRateLimit(50, 100),
		middleware.WebhookSignature(d.Cfg.ChatwootWebhookSecret, d.Cfg.ChatwootWebhookToken),
	)

	// operator feed websocket
	if d.Feed != nil {
		socketCtl := operator.NewFeedSocketController(d.Feed)
		v1.GET("/ops/ws", socketCtl.Handle())
	}
}

// feedOrNil keeps a typed-nil *Feed from sneaking into the Publisher
// interface, where it would defeat the callers' nil checks.
func feedOrNil(f *operator.Feed) convusecase.Publisher {
	if f == nil {
		return nil
	}
	return f
}
