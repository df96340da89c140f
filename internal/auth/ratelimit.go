package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/criminaldb/internal/config"
)

// LoginLimiter counts failed logins per client address and username. Once a
// key reaches maxAttempts failures it is locked out for the lockout duration.
// Expired records are pruned while recording failures, so it needs no
// background goroutine.
type LoginLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*attemptRecord
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// NewLoginLimiter returns nil when the limit is disabled; a nil limiter allows
// everything.
func NewLoginLimiter(cfg config.Auth) *LoginLimiter {
	if cfg.LoginMaxAttempts <= 0 {
		return nil
	}
	lockout := cfg.LoginLockout()
	if lockout <= 0 {
		lockout = 15 * time.Minute
	}
	return &LoginLimiter{
		attempts:    make(map[string]*attemptRecord),
		maxAttempts: cfg.LoginMaxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

// limiterKey trims the username the same way Login does, so padded spellings
// of one account share a key.
func limiterKey(ip, username string) string {
	return ip + ":" + strings.TrimSpace(username)
}

// Allow reports whether a login attempt may proceed and, if not, how long
// until it may.
func (l *LoginLimiter) Allow(ip, username string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.attempts[limiterKey(ip, username)]
	if !exists {
		return true, 0
	}
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt. Failures older than the lockout
// window no longer count.
func (l *LoginLimiter) RecordFailure(ip, username string) {
	if l == nil {
		return
	}
	now := l.now()
	key := limiterKey(ip, username)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(now)

	record, exists := l.attempts[key]
	if !exists {
		record = &attemptRecord{firstAttempt: now}
		l.attempts[key] = record
	}
	record.count++
	if record.count >= l.maxAttempts {
		record.lockedUntil = now.Add(l.lockout)
		record.count = 0
		record.firstAttempt = now
	}
}

// RecordSuccess clears the failure record for a successful login.
func (l *LoginLimiter) RecordSuccess(ip, username string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	delete(l.attempts, limiterKey(ip, username))
	l.mu.Unlock()
}

// prune drops records whose window and lockout have both passed. Callers hold
// the lock.
func (l *LoginLimiter) prune(now time.Time) {
	for key, record := range l.attempts {
		windowExpired := now.Sub(record.firstAttempt) > l.lockout
		lockoutExpired := !now.Before(record.lockedUntil)
		if windowExpired && lockoutExpired {
			delete(l.attempts, key)
		}
	}
}
