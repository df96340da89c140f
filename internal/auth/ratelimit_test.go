package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/criminaldb/internal/config"
)

func newTestLimiter(t *testing.T, now *time.Time) *LoginLimiter {
	t.Helper()
	l := NewLoginLimiter(config.Auth{LoginMaxAttempts: 3, LoginLockoutMinutes: 10})
	require.NotNil(t, l)
	l.now = func() time.Time { return *now }
	return l
}

func TestLoginLimiter_LocksAfterMaxAttempts(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(t, &now)

	for i := 0; i < 2; i++ {
		l.RecordFailure("127.0.0.1", "alice")
		allowed, _ := l.Allow("127.0.0.1", "alice")
		assert.True(t, allowed, "attempt %d", i+1)
	}

	l.RecordFailure("127.0.0.1", "alice")
	allowed, retryAfter := l.Allow("127.0.0.1", "alice")
	assert.False(t, allowed)
	assert.Equal(t, 10*time.Minute, retryAfter)

	other, _ := l.Allow("127.0.0.1", "bob")
	assert.True(t, other, "other usernames are unaffected")

	now = now.Add(10 * time.Minute)
	allowed, _ = l.Allow("127.0.0.1", "alice")
	assert.True(t, allowed, "lockout expires")
}

func TestLoginLimiter_PaddedUsernamesShareKey(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(t, &now)

	l.RecordFailure("127.0.0.1", "alice")
	l.RecordFailure("127.0.0.1", " alice")
	l.RecordFailure("127.0.0.1", "alice\t")

	for _, name := range []string{"alice", " alice ", "\talice"} {
		allowed, _ := l.Allow("127.0.0.1", name)
		assert.False(t, allowed, "%q", name)
	}

	l.RecordSuccess("127.0.0.1", "  alice")
	allowed, _ := l.Allow("127.0.0.1", "alice")
	assert.True(t, allowed)
}

func TestLoginLimiter_SuccessResets(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(t, &now)

	l.RecordFailure("10.0.0.1", "alice")
	l.RecordFailure("10.0.0.1", "alice")
	l.RecordSuccess("10.0.0.1", "alice")
	l.RecordFailure("10.0.0.1", "alice")

	allowed, _ := l.Allow("10.0.0.1", "alice")
	assert.True(t, allowed)
}

func TestLoginLimiter_PrunesExpiredRecords(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(t, &now)

	l.RecordFailure("10.0.0.1", "alice")
	now = now.Add(11 * time.Minute)
	l.RecordFailure("10.0.0.2", "bob")

	assert.Len(t, l.attempts, 1)
}

func TestLoginLimiter_Disabled(t *testing.T) {
	l := NewLoginLimiter(config.Auth{LoginMaxAttempts: 0})
	assert.Nil(t, l)

	l.RecordFailure("10.0.0.1", "alice")
	l.RecordSuccess("10.0.0.1", "alice")
	allowed, _ := l.Allow("10.0.0.1", "alice")
	assert.True(t, allowed)
}
