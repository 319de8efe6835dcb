package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kvizarena/api/config"
	"github.com/kvizarena/api/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const leaderboardKey = "leaderboard:global"

// LeaderboardCache keeps the aggregated global leaderboard in Redis for a
// short TTL. With no Redis address configured the cache is a no-op and
// every request hits the database.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(cfg *config.Config) *LeaderboardCache {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("Leaderboard cache disabled (no REDIS_ADDR configured)")
		return &LeaderboardCache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("Leaderboard cache enabled")
	return &LeaderboardCache{client: client, ttl: cfg.Redis.TTL}
}

// Get returns the cached leaderboard and whether it was present. Cache
// failures are logged and treated as misses.
func (c *LeaderboardCache) Get(ctx context.Context) ([]dto.LeaderboardEntryDTO, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Leaderboard cache read failed")
		}
		return nil, false
	}
	var entries []dto.LeaderboardEntryDTO
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Msg("Leaderboard cache payload corrupt, ignoring")
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []dto.LeaderboardEntryDTO) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Warn().Err(err).Msg("Leaderboard cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Leaderboard cache write failed")
	}
}
