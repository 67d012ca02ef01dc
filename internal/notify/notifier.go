package notify

import (
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/chatwire/backend/internal/api/envelope"
	"github.com/chatwire/backend/internal/infrastructure/config"
	"github.com/chatwire/backend/internal/infrastructure/logging"
)

const dispatchTimeout = 10 * time.Second

// Event is the webhook payload built for every reported error. It is never
// persisted.
type Event struct {
	Kind      string `json:"kind"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	ServerURL string `json:"serverUrl"`
}

// Notifier forwards error events to the configured webhook. Dispatch is
// best-effort and detached: failures are logged and never reach the caller.
type Notifier struct {
	cfg       config.WebhookConfig
	serverURL string
	client    *resty.Client
	log       *logging.Logger
	wg        sync.WaitGroup
}

// New creates a Notifier. The webhook contract is a single POST with no
// retries, so the client is deliberately not configured to retry.
func New(cfg config.WebhookConfig, serverURL string, log *logging.Logger) *Notifier {
	client := resty.New().
		SetTimeout(dispatchTimeout).
		SetHeader("Content-Type", "application/json")

	return &Notifier{
		cfg:       cfg,
		serverURL: serverURL,
		client:    client,
		log:       log,
	}
}

// Notify reports err to the webhook in a detached goroutine. It is a no-op
// when the webhook URL is unset or event reporting is disabled, and it never
// blocks the caller's response path.
func (n *Notifier) Notify(err error) {
	if n == nil || n.cfg.URL == "" || !n.cfg.Enabled {
		return
	}

	event := n.buildEvent(err)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.dispatch(event)
	}()
}

// Wait blocks until all in-flight dispatches finish. Used by tests and the
// shutdown path; regular request handling never calls it.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) buildEvent(err error) Event {
	return Event{
		Kind:      "error",
		Error:     envelope.TitleOf(err),
		Message:   envelope.MessageOf(err),
		Status:    envelope.StatusOf(err),
		Timestamp: time.Now().Format("2006-01-02T15:04:05.000-07:00"),
		APIKey:    n.cfg.APIKey,
		ServerURL: n.serverURL,
	}
}

// dispatch posts the event to the URL exactly as configured, with no path
// suffix. Any failure is swallowed after logging.
func (n *Notifier) dispatch(event Event) {
	resp, err := n.client.R().SetBody(event).Post(n.cfg.URL)
	if err != nil {
		n.log.Warn("webhook dispatch failed", zap.Error(err))
		return
	}
	if resp.IsError() {
		n.log.Warn("webhook dispatch rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("url", n.cfg.URL),
		)
	}
}
