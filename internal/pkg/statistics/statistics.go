// Package statistics serves the creator dashboard rollup. Aggregating the
// event table on every request would hammer the database for busy profiles,
// so results are cached briefly in Redis when the cache is configured.
package statistics

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/cache"
)

const (
	cacheKeyProfileStats = "statistics:profile:%d"
	cacheExpiration      = 60 * time.Second
)

// ProfileStats is the dashboard payload for one profile.
type ProfileStats struct {
	Stats       []repository.EventStat `json:"stats"`
	Subscribers int64                  `json:"subscribers"`
}

// Load returns the rollup for a profile, from cache when a fresh copy
// exists. Cache failures fall through to the database silently.
func Load(repos *repository.Repositories, profileID uint) (*ProfileStats, error) {
	key := fmt.Sprintf(cacheKeyProfileStats, profileID)

	if cache.GetClient() != nil {
		if raw, err := cache.Get(key); err == nil {
			var cached ProfileStats
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats, err := repos.Event.AggregateByProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate events: %w", err)
	}
	subscribers, err := repos.Subscriber.CountByProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	result := &ProfileStats{Stats: stats, Subscribers: subscribers}

	if cache.GetClient() != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := cache.Set(key, string(raw), cacheExpiration); err != nil {
				log.Printf("failed to cache stats for profile %d: %v", profileID, err)
			}
		}
	}

	return result, nil
}
