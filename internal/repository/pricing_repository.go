package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/mowops-settlement/internal/model"
)

const pricingCacheKey = "pricing:settings:v1"

// PricingRepository loads the pricing_settings table. Reads go through an
// optional redis snapshot cache with a short TTL; any cache failure falls
// back to Postgres.
type PricingRepository struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func NewPricingRepository(db *gorm.DB, cache *redis.Client, ttl time.Duration, log zerolog.Logger) *PricingRepository {
	return &PricingRepository{db: db, cache: cache, ttl: ttl, log: log}
}

func (r *PricingRepository) LoadSettings(ctx context.Context) ([]model.PricingSetting, error) {
	if settings, ok := r.fromCache(ctx); ok {
		return settings, nil
	}

	var settings []model.PricingSetting
	err := r.db.WithContext(ctx).Raw(`
		SELECT key, value
		FROM pricing_settings
		ORDER BY key
	`).Scan(&settings).Error
	if err != nil {
		return nil, err
	}

	r.toCache(ctx, settings)
	return settings, nil
}

func (r *PricingRepository) fromCache(ctx context.Context) ([]model.PricingSetting, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, pricingCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn().Err(err).Msg("pricing cache read failed")
		}
		return nil, false
	}
	var settings []model.PricingSetting
	if err := json.Unmarshal(raw, &settings); err != nil {
		r.log.Warn().Err(err).Msg("pricing cache payload invalid")
		return nil, false
	}
	return settings, true
}

func (r *PricingRepository) toCache(ctx context.Context, settings []model.PricingSetting) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, pricingCacheKey, raw, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Msg("pricing cache write failed")
	}
}
