package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/lysokunvoath/grex/internal/models"
	gocache "github.com/patrickmn/go-cache"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	publicGroupsPrefix = "groups:public:"
	DefaultPublicTTL   = 30 * time.Second
)

// GroupCache caches public group listings per search term. Redis is used when
// connected; otherwise entries live in process memory.
type GroupCache struct {
	redis *RedisCache
	local *gocache.Cache
	ttl   time.Duration
}

func NewGroupCache(redis *RedisCache, ttl time.Duration) *GroupCache {
	if ttl <= 0 {
		ttl = DefaultPublicTTL
	}
	return &GroupCache{
		redis: redis,
		local: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func publicKey(query string) string {
	return publicGroupsPrefix + strings.ToLower(strings.TrimSpace(query))
}

// GetPublic returns the cached listing for query, if any.
func (gc *GroupCache) GetPublic(ctx context.Context, query string) ([]models.Group, bool) {
	if gc == nil {
		return nil, false
	}
	key := publicKey(query)

	var data []byte
	if gc.redis != nil {
		b, err := gc.redis.Get(ctx, key)
		if err != nil {
			slog.Warn("public groups cache read failed", "key", key, "error", err)
			return nil, false
		}
		data = b
	} else if v, ok := gc.local.Get(key); ok {
		data, _ = v.([]byte)
	}
	if data == nil {
		return nil, false
	}

	var groups []models.Group
	if err := msgpack.Unmarshal(data, &groups); err != nil {
		slog.Warn("public groups cache decode failed", "key", key, "error", err)
		return nil, false
	}
	return groups, true
}

func (gc *GroupCache) SetPublic(ctx context.Context, query string, groups []models.Group) {
	if gc == nil {
		return
	}
	data, err := msgpack.Marshal(groups)
	if err != nil {
		slog.Warn("public groups cache encode failed", "error", err)
		return
	}
	key := publicKey(query)
	if gc.redis != nil {
		if err := gc.redis.Set(ctx, key, data, gc.ttl); err != nil {
			slog.Warn("public groups cache write failed", "key", key, "error", err)
		}
		return
	}
	gc.local.Set(key, data, gocache.DefaultExpiration)
}

// InvalidatePublic drops every cached listing. Called after any change that
// can alter a public group's name, visibility or member list.
func (gc *GroupCache) InvalidatePublic(ctx context.Context) {
	if gc == nil {
		return
	}
	if gc.redis != nil {
		if err := gc.redis.DeletePattern(ctx, publicGroupsPrefix+"*"); err != nil {
			slog.Warn("public groups cache invalidation failed", "error", err)
		}
		return
	}
	gc.local.Flush()
}
