package services

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	coolingBase = 5 * time.Second
	coolingMax  = 2 * time.Minute
)

type credential struct {
	key              string
	dailyUsedCount   int
	dailyWindowStart time.Time
	lastRequestAt    time.Time
	exhausted        bool
}

// KeyPool tracks the interchangeable API credentials and enforces the
// upstream rate contract: a global minimum interval between requests (the
// limit is per-account-aggregate, not per key), a rolling daily quota per
// credential, and a pool-wide cooling window after overload responses.
// All state mutation happens under one mutex; the lock is never held
// across a network call.
type KeyPool struct {
	mu           sync.Mutex
	creds        []*credential
	minInterval  time.Duration
	dailyLimit   int
	lastRequest  time.Time
	coolingUntil time.Time
	coolingSteps int

	now func() time.Time
}

func NewKeyPool(keys []string, requestsPerMinute, dailyLimitPerKey int) *KeyPool {
	pool := &KeyPool{
		dailyLimit: dailyLimitPerKey,
		now:        time.Now,
	}
	if requestsPerMinute > 0 {
		pool.minInterval = time.Minute / time.Duration(requestsPerMinute)
	}
	start := pool.now()
	for _, key := range keys {
		pool.creds = append(pool.creds, &credential{key: key, dailyWindowStart: start})
	}
	return pool
}

// Acquire grants use of the best available credential, blocking for
// interval spacing and cooling windows (bounded by ctx). It returns
// ErrNoCredentials immediately when every credential is exhausted —
// waiting out a daily window inside a request would be pointless.
func (p *KeyPool) Acquire(ctx context.Context) (string, error) {
	for {
		p.mu.Lock()
		now := p.now()
		p.rolloverLocked(now)

		var wait time.Duration
		if now.Before(p.coolingUntil) {
			wait = p.coolingUntil.Sub(now)
		} else if !p.lastRequest.IsZero() && now.Sub(p.lastRequest) < p.minInterval {
			wait = p.minInterval - now.Sub(p.lastRequest)
		}

		if wait == 0 {
			cred := p.selectLocked()
			if cred == nil {
				p.mu.Unlock()
				return "", ErrNoCredentials
			}
			cred.dailyUsedCount++
			cred.lastRequestAt = now
			p.lastRequest = now
			p.mu.Unlock()
			return cred.key, nil
		}
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
}

// MarkExhausted flags a credential after a quota-exceeded response. It
// stays unavailable until the next daily window rollover.
func (p *KeyPool) MarkExhausted(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cred := range p.creds {
		if cred.key == key {
			cred.exhausted = true
			log.Printf("Credential %s marked exhausted until next daily window", redactKey(key))
			return
		}
	}
}

// MarkOverloaded puts the whole pool into cooling with exponential
// backoff. Overload is an upstream condition, not a credential one, so no
// key is marked.
func (p *KeyPool) MarkOverloaded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coolingSteps++
	backoff := coolingBase << (p.coolingSteps - 1)
	if backoff > coolingMax || backoff <= 0 {
		backoff = coolingMax
	}
	p.coolingUntil = p.now().Add(backoff)
	log.Printf("Translation pool cooling for %s after overload response", backoff)
}

// MarkSuccess resets the cooling backoff after a completed request.
func (p *KeyPool) MarkSuccess(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coolingSteps = 0
}

// Available reports how many credentials can still serve requests today.
func (p *KeyPool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rolloverLocked(p.now())
	available := 0
	for _, cred := range p.creds {
		if !cred.exhausted && cred.dailyUsedCount < p.dailyLimit {
			available++
		}
	}
	return available
}

// selectLocked picks the non-exhausted credential with the lowest daily
// usage. Requires p.mu held.
func (p *KeyPool) selectLocked() *credential {
	var best *credential
	for _, cred := range p.creds {
		if cred.exhausted || cred.dailyUsedCount >= p.dailyLimit {
			continue
		}
		if best == nil || cred.dailyUsedCount < best.dailyUsedCount {
			best = cred
		}
	}
	return best
}

// rolloverLocked resets counters for credentials whose daily window has
// passed. Requires p.mu held.
func (p *KeyPool) rolloverLocked(now time.Time) {
	for _, cred := range p.creds {
		if !sameDay(cred.dailyWindowStart, now) {
			cred.dailyUsedCount = 0
			cred.exhausted = false
			cred.dailyWindowStart = now
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func redactKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
