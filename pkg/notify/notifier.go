package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"events-api/websocket"
)

// StatusNotifier pushes live registration-status updates to connected clients.
type StatusNotifier interface {
	NotifyStatus(event interface{})
}

// WSNotifier implements StatusNotifier on top of the websocket Hub.
type WSNotifier struct {
	Hub *websocket.Hub
}

// NotifyStatus serializes the event as JSON and broadcasts it to all clients.
func (n *WSNotifier) NotifyStatus(event interface{}) {
	if n == nil || n.Hub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal status notification", "err", err)
		return
	}
	n.Hub.Broadcast(payload)
}

// ConfirmationNotifier hands an accepted registration to the downstream
// confirmation pipeline (the service that renders and sends the email with
// the exact address). Delivery failure must not undo the registration.
type ConfirmationNotifier interface {
	NotifyConfirmation(ctx context.Context, payload Confirmation) error
}

// Confirmation is the payload posted downstream. Location carries the exact
// address on purpose: this channel exists precisely to hand it to the
// attendee's confirmation email.
type Confirmation struct {
	EventID    string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// WebhookNotifier POSTs confirmations to a fixed URL with a bounded timeout.
type WebhookNotifier struct {
	URL    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{URL: url, client: &http.Client{Timeout: timeout}}
}

func (n *WebhookNotifier) NotifyConfirmation(ctx context.Context, payload Confirmation) error {
	if n == nil || n.URL == "" {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("confirmation webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NopConfirmationNotifier is used when no webhook URL is configured.
type NopConfirmationNotifier struct{}

func (NopConfirmationNotifier) NotifyConfirmation(ctx context.Context, payload Confirmation) error {
	return nil
}
