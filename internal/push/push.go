// Package push delivers reminder notifications to employee devices.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Payload is the notification content handed to a transport.
type Payload struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	ReminderID      string `json:"reminder_id"`
	ContactName     string `json:"contact_name,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	ContactLocation string `json:"contact_location,omitempty"`
}

// Result reports the outcome of a single delivery attempt.
type Result struct {
	OK           bool
	TokenInvalid bool
	Err          error
}

// Transport sends a payload to a registered device token. Delivery is
// best-effort; callers must not treat a failed Result as fatal.
type Transport interface {
	Send(ctx context.Context, deviceToken string, p Payload) Result
}

// HTTPSender posts FCM-style messages to a push gateway endpoint.
type HTTPSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPSender creates a sender for the given gateway endpoint.
func NewHTTPSender(endpoint, apiKey string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type gatewayMessage struct {
	To           string            `json:"to"`
	Notification map[string]string `json:"notification"`
	Data         Payload           `json:"data"`
}

// Send posts the payload to the gateway. A 404 or 410 response marks the
// device token as invalid so the caller can surface it for cleanup.
func (s *HTTPSender) Send(ctx context.Context, deviceToken string, p Payload) Result {
	msg := gatewayMessage{
		To: deviceToken,
		Notification: map[string]string{
			"title": p.Title,
			"body":  p.Body,
		},
		Data: p,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return Result{Err: fmt.Errorf("push: marshal message: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("push: build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "key="+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("push: send: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{OK: true}
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Result{TokenInvalid: true, Err: fmt.Errorf("push: device token rejected (status %d)", resp.StatusCode)}
	default:
		return Result{Err: fmt.Errorf("push: gateway returned status %d", resp.StatusCode)}
	}
}
