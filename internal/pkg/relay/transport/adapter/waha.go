package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const sendTimeout = 15 * time.Second

// WAHASender delivers messages through a WAHA (WhatsApp HTTP API) instance.
type WAHASender struct {
	baseURL string
	apiKey  string
	session string
	client  *http.Client
}

func NewWAHASender(baseURL, apiKey, session string) *WAHASender {
	if session == "" {
		session = "default"
	}
	return &WAHASender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: session,
		client:  &http.Client{Timeout: sendTimeout},
	}
}

func (s *WAHASender) Name() string { return "waha" }

// Send posts to /api/sendText. WAHA addresses contacts as <digits>@c.us.
func (s *WAHASender) Send(ctx context.Context, phone string, text string) error {
	payload := map[string]string{
		"session": s.session,
		"chatId":  phone + "@c.us",
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/sendText", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("waha request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("waha returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
