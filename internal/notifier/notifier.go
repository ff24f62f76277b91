// Package notifier posts training events to n8n webhooks and decodes the
// payloads n8n sends back.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/logger"
)

var (
	// ErrNoWebhook means no URL is configured for the event. Callers treat it
	// as a skipped delivery.
	ErrNoWebhook = errors.New("no webhook URL configured")
	// ErrUnknownEvent is returned for inbound events stridelog does not handle
	ErrUnknownEvent = errors.New("unknown webhook event")
)

var nowFunc = time.Now

// OutboundEvents are the events stridelog can publish
var OutboundEvents = []constants.WebhookEvent{
	constants.EventWorkoutCreated,
	constants.EventWorkoutCompleted,
	constants.EventStatsUpdated,
	constants.EventAthleteRegistered,
}

// Payload is the envelope exchanged with n8n in both directions
type Payload struct {
	Event     constants.WebhookEvent `json:"event"`
	Timestamp string                 `json:"timestamp"`
	Data      json.RawMessage        `json:"data"`
}

type Notifier struct {
	urls   map[constants.WebhookEvent]string
	secret string
	client *http.Client
	log    *log.Logger
}

// New creates a notifier for the given event URLs. Empty URLs are ignored.
// A non-empty secret is sent with every delivery.
func New(urls map[constants.WebhookEvent]string, secret string) *Notifier {
	n := &Notifier{
		urls:   make(map[constants.WebhookEvent]string),
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logger.Named("notifier"),
	}
	for event, u := range urls {
		n.SetWebhookURL(event, u)
	}
	return n
}

// SetWebhookURL sets or clears the URL for an event
func (n *Notifier) SetWebhookURL(event constants.WebhookEvent, url string) {
	if url == "" {
		delete(n.urls, event)
		return
	}
	n.urls[event] = url
}

// Configured reports whether event has a URL
func (n *Notifier) Configured(event constants.WebhookEvent) bool {
	_, ok := n.urls[event]
	return ok
}

// Send posts data for event and returns the delivery id.
func (n *Notifier) Send(ctx context.Context, event constants.WebhookEvent, data any) (string, error) {
	url, ok := n.urls[event]
	if !ok {
		n.log.Warn("No webhook URL configured", "event", event)
		return "", fmt.Errorf("%w for event %s", ErrNoWebhook, event)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s data: %w", event, err)
	}
	body, err := json.Marshal(Payload{
		Event:     event,
		Timestamp: nowFunc().UTC().Format(time.RFC3339),
		Data:      raw,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	delivery := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.DeliveryHeader, delivery)
	if n.secret != "" {
		req.Header.Set(constants.SecretHeader, n.secret)
	}

	res, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send %s webhook: %w", event, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("webhook %s failed with status %d: %s", event, res.StatusCode, string(msg))
	}

	n.log.Info("Webhook delivered", "event", event, "delivery", delivery)
	return delivery, nil
}

// WorkoutCreated publishes workout.created
func (n *Notifier) WorkoutCreated(ctx context.Context, athlete, workout any) (string, error) {
	return n.Send(ctx, constants.EventWorkoutCreated, map[string]any{
		"athlete": athlete,
		"workout": workout,
	})
}

// WorkoutCompleted publishes workout.completed. activity may be nil.
func (n *Notifier) WorkoutCompleted(ctx context.Context, athlete, workout, activity any) (string, error) {
	return n.Send(ctx, constants.EventWorkoutCompleted, map[string]any{
		"athlete":  athlete,
		"workout":  workout,
		"activity": activity,
	})
}

// StatsUpdated publishes stats.updated
func (n *Notifier) StatsUpdated(ctx context.Context, athlete, stats any) (string, error) {
	return n.Send(ctx, constants.EventStatsUpdated, map[string]any{
		"athlete": athlete,
		"stats":   stats,
	})
}

// AthleteRegistered publishes athlete.registered
func (n *Notifier) AthleteRegistered(ctx context.Context, athlete any) (string, error) {
	return n.Send(ctx, constants.EventAthleteRegistered, map[string]any{
		"athlete": athlete,
	})
}

// ParseIncoming decodes a payload sent by n8n and checks its event
func ParseIncoming(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	switch p.Event {
	case constants.EventExternalWorkoutImport, constants.EventExternalStatsSync, constants.EventNotificationSend:
		return &p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, p.Event)
}
