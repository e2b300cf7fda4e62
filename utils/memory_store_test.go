package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlacklistWithoutRedis(t *testing.T) {
	SetRedis(nil)

	BlacklistToken("jti-1", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("jti-1"))
	assert.False(t, IsTokenBlacklisted("jti-2"))
	assert.False(t, IsTokenBlacklisted(""))

	// Already expired tokens are not stored.
	BlacklistToken("jti-old", time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted("jti-old"))

	assert.Equal(t, 0, PruneBlacklist(time.Now()))
	assert.Equal(t, 1, PruneBlacklist(time.Now().Add(2*time.Hour)))
	assert.False(t, IsTokenBlacklisted("jti-1"))
}

func TestStateStoreWithoutRedis(t *testing.T) {
	SetRedis(nil)

	SaveState("s1", time.Minute)
	assert.True(t, ConsumeState("s1"))
	assert.False(t, ConsumeState("s1"), "state is single use")
	assert.False(t, ConsumeState(""))

	SaveState("s2", time.Minute)
	assert.Equal(t, 1, PruneStates(time.Now().Add(time.Hour)))
	assert.False(t, ConsumeState("s2"))
}

func TestRegistrationGuardFailsOpenWithoutRedis(t *testing.T) {
	SetRedis(nil)
	g := &RegistrationGuard{cooldown: time.Minute, maxPerDay: 1, now: time.Now}

	assert.True(t, g.CooldownTry("10.0.0.1"))
	assert.True(t, g.CooldownTry("10.0.0.1"))
	g.DailyIncrement("10.0.0.1")
	assert.True(t, g.DailyLimitCheck("10.0.0.1"))
}

func TestCacheWithoutRedis(t *testing.T) {
	SetRedis(nil)

	CacheSetJSON("k", []string{"a"}, time.Minute)
	var out []string
	assert.False(t, CacheGetJSON("k", &out))
	InvalidateByPrefix("k")
}

func TestRunPruners(t *testing.T) {
	calls := 0
	runPruners(map[string]Pruner{
		"a": func(time.Time) int { calls++; return 1 },
		"b": func(time.Time) int { calls++; return 0 },
	}, time.Now())
	assert.Equal(t, 2, calls)
}
