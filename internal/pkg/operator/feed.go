package operator

import (
	"encoding/json"
	"log/slog"

	"zapcrm/internal/infrastructure/realtime"
	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
)

// Feed pushes conversation timeline events to connected operators, fanned out
// per company. It satisfies the conversation package's Publisher so ingest,
// relay and webhook paths all feed the same stream.
type Feed struct {
	hub *realtime.Hub
	log *slog.Logger
}

func NewFeed(hub *realtime.Hub, log *slog.Logger) *Feed {
	return &Feed{hub: hub, log: log}
}

var _ convusecase.Publisher = (*Feed)(nil)

// Publish serializes the event and broadcasts it to the event's company room.
// Best-effort: marshal failures are logged, slow clients are dropped by the
// connection layer.
func (f *Feed) Publish(e convusecase.Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		if f.log != nil {
			f.log.Warn("operator feed marshal failed", "type", e.Type, "error", err)
		}
		return
	}
	f.hub.Broadcast(e.CompanyID, raw)
}

// Hub exposes the underlying connection registry for the websocket endpoint.
func (f *Feed) Hub() *realtime.Hub { return f.hub }
