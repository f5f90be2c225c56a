package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ZAPISender delivers messages through a Z-API instance. The base URL already
// carries the instance id and token path segments.
type ZAPISender struct {
	baseURL     string
	clientToken string
	client      *http.Client
}

func NewZAPISender(baseURL, clientToken string) *ZAPISender {
	return &ZAPISender{
		baseURL:     strings.TrimRight(baseURL, "/"),
		clientToken: clientToken,
		client:      &http.Client{Timeout: sendTimeout},
	}
}

func (s *ZAPISender) Name() string { return "zapi" }

func (s *ZAPISender) Send(ctx context.Context, phone string, text string) error {
	payload := map[string]string{
		"phone":   phone,
		"message": text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/send-text", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.clientToken != "" {
		req.Header.Set("Client-Token", s.clientToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("zapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("zapi returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
