package entsoe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/gridwatch/entsoe-go/internal/config"
	"github.com/gridwatch/entsoe-go/internal/metrics"
	"github.com/gridwatch/entsoe-go/internal/transport"
)

// Client talks to the ENTSO-E Transparency Platform. It is safe for
// concurrent use; one instance shares its rate limiter, result cache and
// worker pool budget across all callers.
type Client struct {
	cfg       *config.Snapshot
	backoff   Backoff
	transport transport.Transport
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	cache     *lru.Cache
	group     singleflight.Group
}

// NewClient builds a Client. Settings are resolved from defaults, then the
// ENTSOE_* environment, then the config file named by WithConfigFile, then
// the options themselves.
func NewClient(opts ...Option) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, &o)

	logger := o.logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		logger.SetLevel(level)
	}

	if cfg.APIKey == "" {
		logger.Warn("API key not configured; queries will fail until one is set")
	}

	tr := o.transport
	if tr == nil {
		var limiter *rate.Limiter
		if cfg.RateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
		}
		hc := o.httpClient
		if hc == nil {
			hc = &http.Client{Timeout: cfg.Timeout}
		}
		tr = transport.NewClient(hc, limiter, logger)
	}

	m, err := metrics.New(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	var cache *lru.Cache
	if cfg.CacheSize > 0 {
		cache, err = lru.New(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to build result cache: %w", err)
		}
	}

	backoff := o.backoff
	if backoff == nil {
		backoff = defaultBackoff()
	}

	return &Client{
		cfg:       cfg,
		backoff:   backoff,
		transport: tr,
		logger:    logger,
		metrics:   m,
		cache:     cache,
	}, nil
}

// applyOverrides writes explicitly-set options over the loaded snapshot.
func applyOverrides(cfg *config.Snapshot, o *clientOptions) {
	if o.apiKey != nil {
		cfg.APIKey = *o.apiKey
	}
	if o.baseURL != nil {
		cfg.BaseURL = *o.baseURL
	}
	if o.timeout != nil {
		cfg.Timeout = *o.timeout
	}
	if o.maxRetries != nil {
		cfg.MaxRetries = *o.maxRetries
	}
	if o.workerCount != nil {
		cfg.WorkerCount = *o.workerCount
	}
	if o.rateLimit != nil {
		cfg.RateLimit = *o.rateLimit
	}
	if o.rateBurst != nil {
		cfg.RateBurst = *o.rateBurst
	}
	if o.cacheSize != nil {
		cfg.CacheSize = *o.cacheSize
	}
	if o.logLevel != nil {
		cfg.LogLevel = *o.logLevel
	}
}

// QueryAPI executes q: validates it, splits the period into chunks sized
// for the endpoint, fetches them concurrently and merges the outcomes in
// order. The returned result may be partial; callers decide whether failed
// chunks are acceptable by checking Complete().
//
// Identical queries running concurrently collapse into one upstream
// execution, and complete results are served from the cache.
func (c *Client) QueryAPI(ctx context.Context, q Query) (*LogicalResult, error) {
	spec, ok := endpoints[q.Endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, q.Endpoint)
	}
	if err := validateAPIKey(c.cfg.APIKey); err != nil {
		return nil, err
	}
	if err := q.validate(spec); err != nil {
		return nil, err
	}

	key := q.cacheKey()
	if cached, ok := c.cachedResult(key); ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: a concurrent duplicate may have populated the cache
		// while this call waited its turn.
		if cached, ok := c.cachedResult(key); ok {
			return cached, nil
		}

		f := &fetcher{
			transport:  c.transport,
			baseURL:    c.cfg.BaseURL,
			apiKey:     c.cfg.APIKey,
			maxRetries: c.cfg.MaxRetries,
			backoff:    c.backoff,
			logger:     c.logger.WithField("request_id", uuid.NewString()),
			metrics:    c.metrics,
		}
		result := c.execute(ctx, q, spec, f)

		// Partial results are returned but never cached: the caller may
		// retry and deserve a fresh attempt at the failed chunks.
		if c.cache != nil && result.Complete() {
			c.cache.Add(key, result)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*LogicalResult), nil
}

func (c *Client) cachedResult(key string) (*LogicalResult, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	c.metrics.CacheHits.Inc()
	return v.(*LogicalResult), true
}

func validateAPIKey(key string) error {
	if key == "" {
		return ErrMissingAPIKey
	}
	if _, err := uuid.Parse(key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}
	return nil
}
