package veripay

import (
	"net/http"
	"time"

	"github.com/veripay/veripay/logger"
	"github.com/veripay/veripay/metrics"
)

type options struct {
	logger     logger.Logger
	metrics    metrics.Recorder
	timeout    time.Duration
	httpClient *http.Client
}

// Option customizes a Verifier at construction time.
type Option func(*options)

// WithLogger replaces the default zap logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics enables metric recording, e.g. metrics.NewPrometheusRecorder().
func WithMetrics(r metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithTimeout overrides the per-verification deadline from the config.
func WithTimeout(t time.Duration) Option {
	return func(o *options) {
		if t > 0 {
			o.timeout = t
		}
	}
}

// WithHTTPClient supplies a caller-owned HTTP client shared by all
// adapters. The caller keeps responsibility for closing it.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}
