package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// sentinel cached when no config applies, so "no SLA" lookups also avoid
// hitting Postgres on every ticket read.
const noConfigSentinel = "none"

// CachedSlaConfigRepository decorates FindActive with a Redis cache. Writes
// pass through and invalidate the tenant's cached lookups.
type CachedSlaConfigRepository struct {
	inner  SlaConfigRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedSlaConfigRepository wraps inner with caching. A nil client or
// non-positive TTL disables caching entirely.
func NewCachedSlaConfigRepository(inner SlaConfigRepository, client *redis.Client, ttl time.Duration) SlaConfigRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &CachedSlaConfigRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedSlaConfigRepository) Create(ctx context.Context, cfg *domain.SlaConfig) error {
	if err := r.inner.Create(ctx, cfg); err != nil {
		return err
	}
	r.invalidate(ctx, cfg.TenantID)
	return nil
}

func (r *CachedSlaConfigRepository) Update(ctx context.Context, cfg *domain.SlaConfig) error {
	if err := r.inner.Update(ctx, cfg); err != nil {
		return err
	}
	r.invalidate(ctx, cfg.TenantID)
	return nil
}

func (r *CachedSlaConfigRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	if err := r.inner.Deactivate(ctx, tenantID, id); err != nil {
		return err
	}
	r.invalidate(ctx, tenantID)
	return nil
}

func (r *CachedSlaConfigRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SlaConfig, error) {
	return r.inner.GetByID(ctx, tenantID, id)
}

func (r *CachedSlaConfigRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.SlaConfig, error) {
	return r.inner.ListByTenant(ctx, tenantID)
}

func (r *CachedSlaConfigRepository) FindActive(ctx context.Context, tenantID string, priority domain.TicketPriority, categoryID *string) (*domain.SlaConfig, error) {
	key := r.lookupKey(tenantID, priority, categoryID)

	if cached, err := r.client.Get(ctx, key).Result(); err == nil {
		if cached == noConfigSentinel {
			return nil, nil
		}
		var cfg domain.SlaConfig
		if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
			return &cfg, nil
		}
	}

	cfg, err := r.inner.FindActive(ctx, tenantID, priority, categoryID)
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		r.client.Set(ctx, key, noConfigSentinel, r.ttl)
		return nil, nil
	}
	if payload, err := json.Marshal(cfg); err == nil {
		r.client.Set(ctx, key, payload, r.ttl)
	}
	return cfg, nil
}

func (r *CachedSlaConfigRepository) lookupKey(tenantID string, priority domain.TicketPriority, categoryID *string) string {
	category := ""
	if categoryID != nil {
		category = *categoryID
	}
	return "sla:config:" + tenantID + ":" + string(priority) + ":" + category
}

func (r *CachedSlaConfigRepository) invalidate(ctx context.Context, tenantID string) {
	iter := r.client.Scan(ctx, 0, "sla:config:"+tenantID+":*", 0).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
}
