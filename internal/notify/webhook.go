// Package notify delivers alert notifications to external endpoints.
package notify

import (
	"context"
	"time"

	"carelink/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Webhook posts urgent alerts to a configured HTTP endpoint. Delivery is
// best effort: failures are logged and never surface to the caller.
type Webhook struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhook creates a webhook notifier for the given endpoint.
func NewWebhook(url string, logger *zap.Logger) *Webhook {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Webhook{client: client, url: url, logger: logger}
}

type alertPayload struct {
	Event     string       `json:"event"`
	Alert     domain.Alert `json:"alert"`
	Timestamp time.Time    `json:"timestamp"`
}

// AlertCreated posts the alert to the endpoint.
func (w *Webhook) AlertCreated(ctx context.Context, alert domain.Alert) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(alertPayload{
			Event:     "alert.created",
			Alert:     alert,
			Timestamp: time.Now().UTC(),
		}).
		Post(w.url)
	if err != nil {
		w.logger.Warn("webhook delivery failed",
			zap.Int64("alert_id", alert.ID),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		w.logger.Warn("webhook endpoint rejected alert",
			zap.Int64("alert_id", alert.ID),
			zap.Int("status", resp.StatusCode()),
		)
		return
	}
	w.logger.Info("webhook delivered",
		zap.Int64("alert_id", alert.ID),
		zap.String("title", alert.Title),
	)
}
