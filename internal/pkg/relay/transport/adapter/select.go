package adapter

import (
	"zapcrm/internal/config"
	"zapcrm/internal/pkg/relay/transport/port"
)

// SelectSender picks the outbound gateway from configuration. WAHA wins when
// both are configured; returns nil when neither is, so callers can keep the
// relay endpoint unmounted.
func SelectSender(cfg *config.Config) port.Sender {
	if cfg.WAHABaseURL != "" {
		return NewWAHASender(cfg.WAHABaseURL, cfg.WAHAAPIKey, cfg.WAHASession)
	}
	if cfg.ZAPIBaseURL != "" {
		return NewZAPISender(cfg.ZAPIBaseURL, cfg.ZAPIClientToken)
	}
	return nil
}
