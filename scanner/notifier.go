package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Notifier is the best-effort fallback relay contacted when the primary
// check-in call fails. Its reply is free text and never authoritative.
type Notifier interface {
	Notify(ctx context.Context, scanCode string) (string, error)
}

type WebhookNotifier struct {
	URL        string
	HTTPClient *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts the scan code to the relay and returns the response text.
func (n *WebhookNotifier) Notify(ctx context.Context, scanCode string) (string, error) {
	body, err := json.Marshal(map[string]string{"scan_code": scanCode})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

var greetingPattern = regexp.MustCompile(`(?:Bienvenido|Welcome)\s+(.+)`)

// ParseGuestName heuristically extracts a guest name from the relay's
// greeting text. Empty when the reply carries no recognizable greeting.
func ParseGuestName(responseText string) string {
	match := greetingPattern.FindStringSubmatch(responseText)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
