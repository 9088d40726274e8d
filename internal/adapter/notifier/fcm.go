package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// fcmMessage is the downstream message body sent to the push endpoint.
type fcmMessage struct {
	To           string            `json:"to"`
	Notification *fcmNotification  `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FCMNotifier implements ports.Notifier over the FCM HTTP endpoint.
// Delivery is best-effort: every failure is logged and swallowed, and
// callers never see an error.
type FCMNotifier struct {
	devices    ports.DeviceStore
	httpClient HTTPClient
	endpoint   string
	serverKey  string
	log        zerolog.Logger
}

// NewFCMNotifier creates a new FCM notification gateway.
func NewFCMNotifier(devices ports.DeviceStore, httpClient HTTPClient, cfg config.FCMConfig, log zerolog.Logger) *FCMNotifier {
	return &FCMNotifier{
		devices:    devices,
		httpClient: httpClient,
		endpoint:   cfg.Endpoint,
		serverKey:  cfg.ServerKey,
		log:        log,
	}
}

// Notify sends a push notification to a user's registered device.
// Without both title and message the notification is forced silent; a
// silent notification folds title and message into the data payload so
// transports that only route data payloads still deliver it.
func (n *FCMNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message string, data map[string]string, silent bool) {
	if data == nil {
		data = map[string]string{}
	}
	if title == "" && message == "" {
		silent = true
	}
	if silent {
		if title != "" {
			data["title"] = title
		}
		if message != "" {
			data["message"] = message
		}
	}

	token, err := n.devices.GetToken(ctx, userID)
	if err != nil {
		n.log.Warn().Err(err).Str("user_id", userID.String()).Msg("notify: device lookup failed")
		return
	}
	if token == "" {
		n.log.Debug().Str("user_id", userID.String()).Msg("notify: no registered device, skipping")
		return
	}

	msg := fcmMessage{To: token, Data: data}
	if !silent {
		msg.Notification = &fcmNotification{Title: title, Body: message}
	}

	body, err := json.Marshal(msg)
	if err != nil {
		n.log.Error().Err(err).Str("user_id", userID.String()).Msg("notify: failed to marshal payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		n.log.Error().Err(err).Msg("notify: failed to create request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+n.serverKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("user_id", userID.String()).Msg("notify: delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.log.Warn().Int("status", resp.StatusCode).Str("user_id", userID.String()).Msg("notify: non-2xx response")
		return
	}

	n.log.Info().Str("user_id", userID.String()).Bool("silent", silent).Msg("notify: delivered")
}
