package main

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/turbekoff/amountpad/pkg/calculator"
	"github.com/turbekoff/amountpad/pkg/locale"
)

var ErrSessionsClosed = errors.New("session cache closed")

// session is one keypad conversation. Display and done follow the
// calculator callbacks.
type session struct {
	id      uuid.UUID
	calc    *calculator.Calculator
	display string
	done    bool
}

func newSession(symbols locale.Symbols, limits calculator.Limits) *session {
	s := &session{
		id:   uuid.New(),
		calc: calculator.New(symbols, limits),
	}
	s.calc.OnChange(func(display string) { s.display = display })
	s.calc.OnDone(func() { s.done = true })
	s.display = s.calc.Display()
	return s
}

type cachedSession struct {
	value    *session
	expireAt int64
}

// SessionCache keeps sessions for a sliding TTL. A background cleaner drops
// expired entries every cleanup interval.
type SessionCache struct {
	mu          sync.RWMutex
	cleanerOnce sync.Once
	cleanerCh   chan struct{}
	items       map[string]cachedSession
	ttlTimeout  time.Duration
	inShutdown  atomic.Bool
	now         func() time.Time
}

func NewSessionCache(ttlTimeout, cleanupTimeout time.Duration) *SessionCache {
	sc := &SessionCache{
		cleanerCh:  make(chan struct{}),
		items:      make(map[string]cachedSession),
		ttlTimeout: ttlTimeout,
		now:        time.Now,
	}

	go func() {
		ticker := time.NewTicker(cleanupTimeout)
		defer ticker.Stop()

		for {
			select {
			case <-sc.cleanerCh:
				return
			case <-ticker.C:
				sc.cleanExpiredItems()
			}
		}
	}()
	return sc
}

// Set stores or refreshes a session. During shutdown only existing
// sessions are refreshed.
func (sc *SessionCache) Set(key string, value *session) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	_, isExists := sc.items[key]
	if sc.inShutdown.Load() && !isExists {
		return
	}

	sc.items[key] = cachedSession{
		value:    value,
		expireAt: sc.now().Add(sc.ttlTimeout).UnixNano(),
	}
}

func (sc *SessionCache) Get(key string) *session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	item, exists := sc.items[key]
	if !exists || sc.now().UnixNano() > item.expireAt {
		return nil
	}
	return item.value
}

func (sc *SessionCache) Delete(key string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.items, key)
}

func (sc *SessionCache) Len() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.items)
}

func (sc *SessionCache) IsEmpty() bool {
	return sc.Len() == 0
}

const shutdownIntervalMax = 500 * time.Millisecond

// Shutdown stops accepting new sessions and waits for the open ones to
// finish or expire.
func (sc *SessionCache) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	sc.inShutdown.Store(true)
	sc.mu.Unlock()
	sc.closeCleaner()

	intervalBase := time.Millisecond
	nextInterval := func() time.Duration {
		interval := intervalBase + time.Duration(rand.Int63n(int64(intervalBase/10)+1))

		intervalBase *= 2
		if intervalBase > shutdownIntervalMax {
			intervalBase = shutdownIntervalMax
		}
		return interval
	}

	timer := time.NewTimer(nextInterval())
	defer timer.Stop()
	for {
		sc.cleanExpiredItems()
		if sc.IsEmpty() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(nextInterval())
		}
	}
}

// Close drops every session at once.
func (sc *SessionCache) Close() error {
	sc.mu.Lock()
	if sc.inShutdown.Load() {
		sc.mu.Unlock()
		return ErrSessionsClosed
	}
	sc.inShutdown.Store(true)
	clear(sc.items)
	sc.mu.Unlock()

	sc.closeCleaner()
	return nil
}

func (sc *SessionCache) cleanExpiredItems() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	now := sc.now().UnixNano()
	for k, v := range sc.items {
		if now > v.expireAt {
			delete(sc.items, k)
		}
	}
}

func (sc *SessionCache) closeCleaner() {
	sc.cleanerOnce.Do(func() {
		close(sc.cleanerCh)
	})
}
