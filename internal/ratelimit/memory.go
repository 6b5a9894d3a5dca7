package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	idleTimeout     = 3 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	b       int

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	l := &MemoryLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		b:       burst,
		stop:    make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.getLimiter(key, time.Now()).Allow(), nil
}

func (l *MemoryLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (l *MemoryLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > idleTimeout {
			delete(l.clients, key)
		}
	}
}

func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.evictIdle(now)
		case <-l.stop:
			return
		}
	}
}

func (l *MemoryLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}
