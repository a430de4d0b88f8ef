package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, body)) when a secret is set.
const SignatureHeader = "X-Warden-Signature"

// HTTPEmitter POSTs audit events as JSON to a receiver.
type HTTPEmitter struct {
	client  *http.Client
	url     string
	secret  []byte
	headers map[string]string
}

type HTTPEmitterOption func(*HTTPEmitter)

// WithClient sets the HTTP client (default: 10s timeout).
func WithClient(c *http.Client) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		e.client = c
	}
}

// WithHeader sets a header sent on every request.
func WithHeader(key, value string) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		if e.headers == nil {
			e.headers = make(map[string]string)
		}
		e.headers[key] = value
	}
}

// WithSecret signs every body so the receiver can authenticate deliveries.
func WithSecret(secret string) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		if secret != "" {
			e.secret = []byte(secret)
		}
	}
}

func NewHTTPEmitter(url string, opts ...HTTPEmitterOption) *HTTPEmitter {
	e := &HTTPEmitter{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit implements ports.WebhookEmitter. Non-2xx responses are errors so the
// queue retries the delivery.
func (e *HTTPEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Warden-Event", event.Event)
	if event.ID != "" {
		req.Header.Set("X-Warden-Delivery", event.ID)
	}
	if e.secret != nil {
		req.Header.Set(SignatureHeader, Sign(e.secret, body))
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook endpoint returned status %d", e.Status)
}

var _ ports.WebhookEmitter = (*HTTPEmitter)(nil)
