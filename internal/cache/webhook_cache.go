package cache

import (
	"sync"
	"time"

	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"github.com/getmentor/webhook-admin/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const webhookListCacheName = "webhook_lists"

// WebhookListCache keeps the webhook list of each scope in memory.
// Entries are invalidated on every mutation of their scope. Each scope
// carries a version bumped by Invalidate, so a list read from the store
// before a mutation is never stored after it.
type WebhookListCache struct {
	cache *gocache.Cache
	ttl   time.Duration

	mu       sync.Mutex
	versions map[string]uint64
}

// NewWebhookListCache creates a cache whose entries live for ttl.
// A non-positive ttl disables caching.
func NewWebhookListCache(ttl time.Duration) *WebhookListCache {
	cleanup := 2 * ttl
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &WebhookListCache{
		cache:    gocache.New(ttl, cleanup),
		ttl:      ttl,
		versions: make(map[string]uint64),
	}
}

// Enabled reports whether entries are kept at all
func (c *WebhookListCache) Enabled() bool {
	return c.ttl > 0
}

// Get returns a copy of the cached list for scope
func (c *WebhookListCache) Get(scope models.Scope) ([]models.Webhook, bool) {
	if !c.Enabled() {
		return nil, false
	}

	data, found := c.cache.Get(scope.CacheKey())
	if !found {
		metrics.CacheMisses.WithLabelValues(webhookListCacheName).Inc()
		return nil, false
	}

	webhooks, ok := data.([]models.Webhook)
	if !ok {
		logger.Error("Invalid webhook list cache data type", zap.String("scope", scope.CacheKey()))
		c.cache.Delete(scope.CacheKey())
		metrics.CacheMisses.WithLabelValues(webhookListCacheName).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(webhookListCacheName).Inc()
	return append([]models.Webhook(nil), webhooks...), true
}

// Version returns the current version of scope. Capture it before reading
// the store and hand it to Set.
func (c *WebhookListCache) Version(scope models.Scope) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[scope.CacheKey()]
}

// Set stores a copy of webhooks for scope unless scope was invalidated
// after version was taken. It reports whether the list was stored.
func (c *WebhookListCache) Set(scope models.Scope, version uint64, webhooks []models.Webhook) bool {
	if !c.Enabled() {
		return false
	}

	key := scope.CacheKey()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[key] != version {
		logger.Debug("Stale webhook list not cached", zap.String("scope", key))
		return false
	}
	c.cache.Set(key, append([]models.Webhook{}, webhooks...), c.ttl)
	metrics.CacheSize.WithLabelValues(webhookListCacheName).Set(float64(c.cache.ItemCount()))
	return true
}

// Invalidate drops the cached list of scope and bumps its version
func (c *WebhookListCache) Invalidate(scope models.Scope) {
	key := scope.CacheKey()
	c.mu.Lock()
	c.versions[key]++
	c.cache.Delete(key)
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(webhookListCacheName).Set(float64(c.cache.ItemCount()))
	logger.Debug("Webhook list cache invalidated", zap.String("scope", key))
}
