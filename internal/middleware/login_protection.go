// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginProtection combines per-IP rate limiting of the login endpoint with
// per-account lockout after repeated failures. The backend is the final
// arbiter of credentials; this layer just makes brute-forcing through the
// console expensive.
type LoginProtection struct {
	ipLimit rate.Limit
	ipBurst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	attempts map[string]*loginAttempt

	maxFailed       int
	lockoutDuration time.Duration
	attemptWindow   time.Duration
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int // doubles the lockout on each repeat
}

// LoginProtectionConfig holds the tunables; zero values fall back to the
// defaults below.
type LoginProtectionConfig struct {
	IPRateLimit     float64 // requests per second per IP
	IPBurst         int
	MaxFailed       int
	LockoutDuration time.Duration
	AttemptWindow   time.Duration
}

// NewLoginProtection creates a login protection instance and starts its
// cleanup loop.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = 0.5 // 1 request per 2 seconds
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = 5
	}
	if cfg.MaxFailed <= 0 {
		cfg.MaxFailed = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	lp := &LoginProtection{
		ipLimit:         rate.Limit(cfg.IPRateLimit),
		ipBurst:         cfg.IPBurst,
		limiters:        make(map[string]*rate.Limiter),
		attempts:        make(map[string]*loginAttempt),
		maxFailed:       cfg.MaxFailed,
		lockoutDuration: cfg.LockoutDuration,
		attemptWindow:   cfg.AttemptWindow,
	}
	go lp.cleanupLoop()
	return lp
}

// RateLimit wraps the login POST route with the per-IP limiter.
func (lp *LoginProtection) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !lp.limiterFor(r.RemoteAddr).Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (lp *LoginProtection) limiterFor(addr string) *rate.Limiter {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	limiter, ok := lp.limiters[addr]
	if !ok {
		limiter = rate.NewLimiter(lp.ipLimit, lp.ipBurst)
		lp.limiters[addr] = limiter
	}
	return limiter
}

// IsAccountLocked reports whether the account is currently locked and for
// how much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	attempt, ok := lp.attempts[email]
	if !ok {
		return false, 0
	}
	remaining := time.Until(attempt.lockedUntil)
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// RecordFailedAttempt notes a failed login. Returns true and the lockout
// duration when this failure tripped the lock.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	attempt, ok := lp.attempts[email]
	if !ok || now.Sub(attempt.firstFailed) > lp.attemptWindow {
		lockouts := 0
		if ok {
			lockouts = attempt.lockouts
		}
		attempt = &loginAttempt{firstFailed: now, lockouts: lockouts}
		lp.attempts[email] = attempt
	}

	attempt.count++
	if attempt.count >= lp.maxFailed {
		duration := lp.lockoutDuration << attempt.lockouts
		attempt.lockedUntil = now.Add(duration)
		attempt.lockouts++
		attempt.count = 0
		attempt.firstFailed = now
		return true, duration
	}
	return false, 0
}

// RemainingAttempts returns how many failures are left before lockout.
func (lp *LoginProtection) RemainingAttempts(email string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	attempt, ok := lp.attempts[email]
	if !ok || time.Since(attempt.firstFailed) > lp.attemptWindow {
		return lp.maxFailed
	}
	return lp.maxFailed - attempt.count
}

// RecordSuccessfulLogin clears the failure state for the account.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	delete(lp.attempts, email)
	lp.mu.Unlock()
}

// cleanupLoop drops idle limiters and expired lockouts.
func (lp *LoginProtection) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		lp.mu.Lock()
		for email, attempt := range lp.attempts {
			if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > lp.attemptWindow {
				delete(lp.attempts, email)
			}
		}
		// Limiters are cheap; rebuilding the map bounds its growth.
		if len(lp.limiters) > 10000 {
			lp.limiters = make(map[string]*rate.Limiter)
		}
		lp.mu.Unlock()
	}
}
