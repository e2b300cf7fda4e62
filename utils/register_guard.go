package utils

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mddforum/mdd-api/config"
)

const registerKeyPrefix = "reg:"

// RegistrationGuard throttles sign-ups per client IP. Every check fails open when Redis is absent or erroring.
type RegistrationGuard struct {
	cooldown  time.Duration
	maxPerDay int
	now       func() time.Time
}

// NewRegistrationGuard reads the limits from cfg; zero values disable the matching check.
func NewRegistrationGuard(cfg config.AppConfig) *RegistrationGuard {
	return &RegistrationGuard{
		cooldown:  time.Duration(cfg.RegisterAttemptCooldownSec) * time.Second,
		maxPerDay: cfg.RegisterMaxPerIPPerDay,
		now:       time.Now,
	}
}

func regKey(parts ...string) string {
	return registerKeyPrefix + strings.Join(parts, ":")
}

func (g *RegistrationGuard) dayKey(ip string) string {
	return regKey("succday", ip, g.now().Format("20060102"))
}

// CooldownTry enforces a short cooldown between attempts from the same IP.
func (g *RegistrationGuard) CooldownTry(ip string) bool {
	cli := GetRedis()
	if g.cooldown <= 0 || cli == nil || ip == "" {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	ok, err := cli.SetNX(ctx, regKey("cooldown", ip), "1", g.cooldown).Result()
	if err != nil {
		Logger.Warn("registration cooldown check failed", zap.Error(err))
		return true
	}
	return ok
}

// DailyLimitCheck allows up to maxPerDay successful registrations per IP and day.
func (g *RegistrationGuard) DailyLimitCheck(ip string) bool {
	cli := GetRedis()
	if g.maxPerDay <= 0 || cli == nil || ip == "" {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := cli.Get(ctx, g.dayKey(ip)).Int()
	if errors.Is(err, redis.Nil) {
		return true
	}
	if err != nil {
		Logger.Warn("registration daily check failed", zap.Error(err))
		return true
	}
	return n < g.maxPerDay
}

// DailyIncrement counts a successful registration; the counter expires at the end of the day.
func (g *RegistrationGuard) DailyIncrement(ip string) {
	cli := GetRedis()
	if g.maxPerDay <= 0 || cli == nil || ip == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := g.dayKey(ip)
	if err := cli.Incr(ctx, key).Err(); err != nil {
		return
	}
	now := g.now()
	ttl := time.Until(time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location()))
	if ttl <= 0 {
		ttl = time.Minute
	}
	_ = cli.Expire(ctx, key, ttl).Err()
}
