package countries

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atlas/config"
	"atlas/internal/domain/entity"
	"atlas/internal/domain/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const (
	cacheKeyAll        = "countries:all"
	cacheKeyCodePrefix = "countries:code:"
	defaultCacheTTL    = 6 * time.Hour
)

// cachedSource is a read-through Redis cache in front of another source.
// Country data changes rarely, so cache failures degrade to the upstream
// call instead of failing the request.
type cachedSource struct {
	next   service.CountrySource
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps a country source with a Redis read-through cache.
func NewCachedSource(next service.CountrySource, client *redis.Client, ttl time.Duration, logger *slog.Logger) service.CountrySource {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &cachedSource{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *cachedSource) All(ctx context.Context) ([]*entity.Country, error) {
	var cached []*entity.Country
	if s.readCache(ctx, cacheKeyAll, &cached) {
		return cached, nil
	}

	result, err := s.next.All(ctx)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, cacheKeyAll, result)

	return result, nil
}

func (s *cachedSource) GetByCode(ctx context.Context, code string) (*entity.Country, error) {
	key := cacheKeyCodePrefix + strings.ToUpper(code)

	var cached entity.Country
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.next.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, key, result)

	return result, nil
}

// GetManyByCodes resolves each code through the per-code cache and falls back
// to one batched upstream call for the misses.
func (s *cachedSource) GetManyByCodes(ctx context.Context, codes []string) ([]*entity.Country, error) {
	found := make(map[string]*entity.Country, len(codes))
	missing := make([]string, 0, len(codes))

	for _, code := range codes {
		normalized := strings.ToUpper(code)

		var cached entity.Country
		if s.readCache(ctx, cacheKeyCodePrefix+normalized, &cached) {
			found[normalized] = &cached
		} else {
			missing = append(missing, normalized)
		}
	}

	if len(missing) > 0 {
		fetched, err := s.next.GetManyByCodes(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, country := range fetched {
			found[country.Code] = country
			s.writeCache(ctx, cacheKeyCodePrefix+country.Code, country)
		}
	}

	result := make([]*entity.Country, 0, len(found))
	for _, code := range codes {
		if country, ok := found[strings.ToUpper(code)]; ok {
			result = append(result, country)
		}
	}

	return result, nil
}

func (s *cachedSource) readCache(ctx context.Context, key string, target any) bool {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Country cache read failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}

		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn("Country cache entry corrupted",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return false
	}

	return true
}

func (s *cachedSource) writeCache(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("Country cache write failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// NewCountrySource builds the configured country source: the REST client,
// wrapped in the Redis cache when one is configured.
func NewCountrySource(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) service.CountrySource {
	source := NewRESTCountries(cfg, logger)

	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		return source
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewCachedSource(source, client, cfg.Redis.TTL, logger)
}
