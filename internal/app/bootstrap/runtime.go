// Package bootstrap wires configuration into the runtime dependencies of the
// API server.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/heritage-connect/internal/catalog"
	"github.com/wolfman30/heritage-connect/internal/chat"
	appconfig "github.com/wolfman30/heritage-connect/internal/config"
	"github.com/wolfman30/heritage-connect/internal/lookup"
	"github.com/wolfman30/heritage-connect/internal/observability/metrics"
	"github.com/wolfman30/heritage-connect/internal/pricing"
	"github.com/wolfman30/heritage-connect/internal/transcript"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildCatalog loads the site catalog from cfg.CatalogPath, or returns the
// built-in sites when no path is configured.
func BuildCatalog(cfg *appconfig.Config, logger *logging.Logger) (*catalog.Catalog, error) {
	if cfg == nil || strings.TrimSpace(cfg.CatalogPath) == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("catalog loaded", "path", cfg.CatalogPath, "sites", cat.Len())
	}
	return cat, nil
}

// BuildTranscriptStore returns the Redis-backed store when a client is
// available and the in-memory store otherwise.
func BuildTranscriptStore(redisClient *redis.Client, cfg *appconfig.Config) transcript.Store {
	ttl := cfg.SessionTTL
	if store := transcript.NewRedisStore(redisClient, ttl); store != nil {
		return store
	}
	return transcript.NewMemoryStore(ttl)
}

// BuildLookupClient returns the external site lookup, or nil when no base URL
// is configured.
func BuildLookupClient(redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) *lookup.Client {
	if cfg == nil || strings.TrimSpace(cfg.LookupBaseURL) == "" {
		return nil
	}
	opts := []lookup.ClientOption{lookup.WithLogger(logger)}
	if redisClient != nil {
		opts = append(opts, lookup.WithCache(redisClient, cfg.LookupCacheTTL))
	}
	return lookup.NewClient(cfg.LookupBaseURL, cfg.LookupTimeout, opts...)
}

// BuildChatService assembles the chat service from its parts. Weekend pricing
// is evaluated in loc.
func BuildChatService(loc *time.Location, cat *catalog.Catalog, store transcript.Store, finder *lookup.Client, m *metrics.ChatMetrics, logger *logging.Logger) *chat.Service {
	opts := []chat.Option{
		chat.WithTranscript(store),
		chat.WithClock(pricing.NewClock(loc)),
		chat.WithMetrics(m),
		chat.WithLogger(logger),
	}
	if finder != nil {
		opts = append(opts, chat.WithSiteFinder(finder))
	}
	return chat.NewService(cat, opts...)
}
