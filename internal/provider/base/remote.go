package base

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/davidbz/promptsmith/internal/observability"
)

const defaultBackoff = 300 * time.Millisecond

// ErrEmptyRewrite is returned when the upstream model answers with no text.
var ErrEmptyRewrite = errors.New("upstream returned an empty rewrite")

// RemoteConfig configures a provider's upstream rewrite call.
// Fields are read with a provider envPrefix, e.g. OPENAI_API_KEY.
type RemoteConfig struct {
	APIKey     string  `env:"API_KEY"`
	BaseURL    string  `env:"BASE_URL"`
	Model      string  `env:"REWRITE_MODEL"`
	Timeout    int     `env:"TIMEOUT"       envDefault:"30"`
	MaxRetries int     `env:"MAX_RETRIES"   envDefault:"2"`
	RPS        float64 `env:"RPS"           envDefault:"5"`
	Burst      int     `env:"BURST"         envDefault:"5"`
}

// Enabled reports whether credentials are configured.
func (c RemoteConfig) Enabled() bool {
	return c.APIKey != ""
}

// TimeoutDuration returns the per-attempt timeout.
func (c RemoteConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// RemoteCaller throttles, times out and retries upstream calls.
type RemoteCaller struct {
	provider   string
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

// NewRemoteCaller creates a caller for provider. A non-positive RPS disables throttling.
func NewRemoteCaller(provider string, cfg RemoteConfig) *RemoteCaller {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &RemoteCaller{
		provider:   provider,
		limiter:    rate.NewLimiter(limit, burst),
		timeout:    cfg.TimeoutDuration(),
		maxRetries: retries,
		backoff:    defaultBackoff,
	}
}

// WithBackoff overrides the base delay between attempts.
func (c *RemoteCaller) WithBackoff(d time.Duration) *RemoteCaller {
	c.backoff = d
	return c
}

// Call runs fn up to 1+MaxRetries times with exponential backoff. Cancelling ctx
// aborts the outstanding attempt and any remaining ones.
func (c *RemoteCaller) Call(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	logger := observability.FromContext(ctx)

	var last error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		out, err := c.attempt(ctx, fn)
		if err == nil {
			observability.AdapterCallsTotal.WithLabelValues(c.provider, "success").Inc()
			return out, nil
		}

		last = err
		logger.Debug("remote rewrite attempt failed",
			observability.Int("attempt", attempt+1),
			observability.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	observability.AdapterCallsTotal.WithLabelValues(c.provider, "failure").Inc()
	return "", last
}

func (c *RemoteCaller) attempt(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := fn(ctx)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyRewrite
	}
	return out, nil
}
