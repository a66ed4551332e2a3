package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const (
	ruleCollectionKey = "escalation-rules"
	ruleItemPrefix    = "escalation-rules:"
)

// ruleKV is the slice of the Redis client the cache uses. *redis.Client
// satisfies it directly.
type ruleKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RuleCache keeps the escalation rule collection and single rules in Redis
// with delete-on-write invalidation. A nil or unreachable Redis degrades to
// cache misses; callers always fall back to the repository.
type RuleCache struct {
	kv     ruleKV
	ttl    time.Duration
	logger *zap.Logger
}

// NewRuleCache builds the cache. ttl <= 0 disables expiry.
func NewRuleCache(r *Redis, ttl time.Duration, logger *zap.Logger) *RuleCache {
	cache := &RuleCache{ttl: ttl, logger: logger}
	if r != nil && r.Client != nil {
		cache.kv = r.Client
	}
	return cache
}

// GetCollection returns the cached rule list, or ok=false on a miss.
func (c *RuleCache) GetCollection(ctx context.Context) ([]domain.EscalationRule, bool) {
	if c == nil || c.kv == nil {
		return nil, false
	}
	var rules []domain.EscalationRule
	if !c.read(ctx, ruleCollectionKey, &rules) {
		return nil, false
	}
	return rules, true
}

// SetCollection stores the rule list.
func (c *RuleCache) SetCollection(ctx context.Context, rules []domain.EscalationRule) {
	c.write(ctx, ruleCollectionKey, rules)
}

// GetRule returns the cached rule for id, or ok=false on a miss.
func (c *RuleCache) GetRule(ctx context.Context, id string) (*domain.EscalationRule, bool) {
	if c == nil || c.kv == nil || id == "" {
		return nil, false
	}
	var rule domain.EscalationRule
	if !c.read(ctx, ruleItemPrefix+id, &rule) {
		return nil, false
	}
	return &rule, true
}

// SetRule stores one rule under its item key.
func (c *RuleCache) SetRule(ctx context.Context, rule *domain.EscalationRule) {
	if rule == nil || rule.ID == "" {
		return
	}
	c.write(ctx, ruleItemPrefix+rule.ID, rule)
}

// Invalidate drops the collection entry and, when id is non-empty, the
// single-item entry for that rule.
func (c *RuleCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.kv == nil {
		return
	}
	keys := []string{ruleCollectionKey}
	if id != "" {
		keys = append(keys, ruleItemPrefix+id)
	}
	if err := c.kv.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug("rule cache invalidation failed", zap.Error(err))
	}
}

func (c *RuleCache) read(ctx context.Context, key string, out any) bool {
	raw, err := c.kv.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("rule cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("rule cache entry corrupt; dropping", zap.String("key", key), zap.Error(err))
		_ = c.kv.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *RuleCache) write(ctx context.Context, key string, value any) {
	if c == nil || c.kv == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("rule cache write failed", zap.String("key", key), zap.Error(err))
	}
}
