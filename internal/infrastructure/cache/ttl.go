package cache

import (
	"time"

	"github.com/menswear/backend/internal/infrastructure/config"
)

// TTL tiers
const (
	TierShort  = "short"
	TierMedium = "medium"
	TierLong   = "long"
	TierDay    = "day"
)

// TTLPolicy maps tier names to durations
type TTLPolicy struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Day    time.Duration
}

// DefaultTTLPolicy returns 1m / 5m / 1h / 24h
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Short:  time.Minute,
		Medium: 5 * time.Minute,
		Long:   time.Hour,
		Day:    24 * time.Hour,
	}
}

// NewTTLPolicy builds a policy from config, keeping defaults for unset tiers
func NewTTLPolicy(cfg config.CacheConfig) TTLPolicy {
	p := DefaultTTLPolicy()
	if cfg.TTLShort > 0 {
		p.Short = cfg.TTLShort
	}
	if cfg.TTLMedium > 0 {
		p.Medium = cfg.TTLMedium
	}
	if cfg.TTLLong > 0 {
		p.Long = cfg.TTLLong
	}
	if cfg.TTLDay > 0 {
		p.Day = cfg.TTLDay
	}
	return p
}

// TTLFor resolves a tier name. Unknown names resolve to the medium tier.
func (p TTLPolicy) TTLFor(tier string) time.Duration {
	switch tier {
	case TierShort:
		return p.Short
	case TierLong:
		return p.Long
	case TierDay:
		return p.Day
	default:
		return p.Medium
	}
}
