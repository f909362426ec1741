package entsoe

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/gridwatch/entsoe-go/internal/transport"
)

// Option configures a Client. Options take precedence over environment
// variables, which take precedence over config-file values.
type Option func(*clientOptions)

type clientOptions struct {
	configFile  string
	apiKey      *string
	baseURL     *string
	timeout     *time.Duration
	maxRetries  *int
	workerCount *int
	rateLimit   *float64
	rateBurst   *int
	cacheSize   *int
	logLevel    *string

	logger     *logrus.Logger
	backoff    Backoff
	httpClient *http.Client
	transport  transport.Transport
	registerer prometheus.Registerer
}

// WithConfigFile loads settings from the given file before applying other
// options. The format is whatever the extension says, e.g. config.yaml.
func WithConfigFile(path string) Option {
	return func(o *clientOptions) { o.configFile = path }
}

// WithAPIKey sets the platform security token.
func WithAPIKey(key string) Option {
	return func(o *clientOptions) { o.apiKey = &key }
}

// WithBaseURL points the client at a different API root, e.g. a test
// server.
func WithBaseURL(url string) Option {
	return func(o *clientOptions) { o.baseURL = &url }
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = &d }
}

// WithMaxRetries sets how many times a transient failure is retried; a
// chunk therefore makes at most n+1 attempts per page.
func WithMaxRetries(n int) Option {
	return func(o *clientOptions) { o.maxRetries = &n }
}

// WithWorkerCount bounds how many chunks are fetched concurrently.
func WithWorkerCount(n int) Option {
	return func(o *clientOptions) { o.workerCount = &n }
}

// WithRateLimit caps outgoing requests at perSecond with the given burst.
// A zero perSecond disables client-side rate limiting entirely.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *clientOptions) {
		o.rateLimit = &perSecond
		o.rateBurst = &burst
	}
}

// WithCacheSize sets how many complete results are kept in the LRU result
// cache. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(o *clientOptions) { o.cacheSize = &n }
}

// WithLogLevel sets the level of the client's own logger. Ignored when
// WithLogger supplies one, the caller's logger keeps its settings.
func WithLogLevel(level string) Option {
	return func(o *clientOptions) { o.logLevel = &level }
}

// WithLogger routes the client's logging through the given logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithBackoff replaces the retry delay schedule. The default doubles from
// one second and caps at 64 seconds.
func WithBackoff(b Backoff) Option {
	return func(o *clientOptions) { o.backoff = b }
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to add a proxy
// or custom TLS settings. The client's timeout is then the caller's
// business; WithTimeout has no effect.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithMetricsRegisterer registers the client's metrics with reg. Without
// it the metrics are still collected but not exported anywhere.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *clientOptions) { o.registerer = reg }
}

// withTransport swaps the whole HTTP stack. Tests use it to run against
// mocks.
func withTransport(t transport.Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}
