package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/model"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/utils/signature"
)

const maxResponseSize = 1 << 20

// config holds internal notifier configuration
type config struct {
	url        string
	secret     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	newNonce   func() string
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithURL sets the release server endpoint
func WithURL(url string) Option {
	return func(c *config) {
		c.url = url
	}
}

// WithSecret sets the shared signing secret. An empty secret sends unsigned requests.
func WithSecret(secret string) Option {
	return func(c *config) {
		c.secret = secret
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithTimeout bounds the whole request including reading the response
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client. WithTimeout still applies to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithNonceFunc replaces the nonce generator
func WithNonceFunc(f func() string) Option {
	return func(c *config) {
		c.newNonce = f
	}
}

// Client posts signed release payloads to the release tracking server
type Client struct {
	cfg *config
}

// New creates a notification client
func New(opts ...Option) *Client {
	cfg := &config{
		url:       types.DefaultNotifyURL,
		userAgent: types.NotifyUserAgent,
		timeout:   60 * time.Second,
		newNonce:  signature.NewNonce,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		hc := *cfg.httpClient
		hc.Timeout = cfg.timeout
		cfg.httpClient = &hc
	}

	return &Client{cfg: cfg}
}

// Notify serializes the payload and sends it
func (c *Client) Notify(ctx context.Context, payload *model.NotificationPayload) error {
	body, err := payload.Marshal()
	if err != nil {
		return err
	}
	return c.Send(ctx, body)
}

// Send posts body with nonce and signature headers. Only HTTP 200 counts as success.
func (c *Client) Send(ctx context.Context, body []byte) error {
	logger := ctxlog.From(ctx)
	nonce := c.cfg.newNonce()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.url, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create notification request", goerr.V("url", c.cfg.url))
	}

	if c.cfg.secret == "" {
		logger.Warn("API secret is not set, sending unsigned notification", "url", c.cfg.url)
	} else {
		req.Header.Set(types.HeaderSignature, signature.Compute(c.cfg.secret, nonce, body))
	}
	req.Header.Set(types.HeaderNonce, nonce)
	req.Header.Set("User-Agent", c.cfg.userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(types.ErrNotifyFailed, "failed to connect to release server",
			goerr.V("url", c.cfg.url),
			goerr.V("cause", err.Error()),
		)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return goerr.Wrap(types.ErrNotifyFailed, "failed to read release server response",
			goerr.V("url", c.cfg.url),
			goerr.V("cause", err.Error()),
		)
	}

	if resp.StatusCode != http.StatusOK {
		return goerr.Wrap(types.ErrNotifyFailed, "release server rejected notification",
			goerr.V("url", c.cfg.url),
			goerr.V("status", resp.Status),
			goerr.V("body", string(respBody)),
		)
	}

	logger.Info("Release server has been notified",
		"url", c.cfg.url,
		"nonce", nonce,
		"response", string(respBody),
	)
	return nil
}
