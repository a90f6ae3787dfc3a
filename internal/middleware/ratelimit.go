package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"mydiary/internal/config"
	handlers "mydiary/internal/handler"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter keeps one token bucket per key. Buckets idle for longer
// than idleTTL are evicted by a background loop until Stop is called.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

func NewKeyedRateLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedRateLimiter {
	k := newKeyedRateLimiter(rps, burst, idleTTL, time.Now)
	if idleTTL > 0 {
		go k.cleanup()
	}
	return k
}

func newKeyedRateLimiter(rps float64, burst int, idleTTL time.Duration, now func() time.Time) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     now,
		done:    make(chan struct{}),
	}
}

func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = entry
	}
	entry.lastSeen = k.now()
	k.mu.Unlock()

	return entry.limiter.Allow()
}

// Sweep drops buckets not used within idleTTL and returns how many were removed.
func (k *KeyedRateLimiter) Sweep() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := k.now().Add(-k.idleTTL)
	removed := 0
	for key, entry := range k.entries {
		if !entry.lastSeen.After(cutoff) {
			delete(k.entries, key)
			removed++
		}
	}
	return removed
}

func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (k *KeyedRateLimiter) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
	})
}

func (k *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(max(k.idleTTL/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-k.done:
			return
		case <-ticker.C:
			if removed := k.Sweep(); removed > 0 {
				logrus.WithField("removed", removed).Debug("Удалены неактивные лимитеры")
			}
		}
	}
}

type trustedProxies []netip.Prefix

// parseTrustedProxies accepts single addresses and CIDR ranges; invalid
// entries are logged and skipped.
func parseTrustedProxies(values []string) trustedProxies {
	var proxies trustedProxies
	for _, value := range values {
		if prefix, err := netip.ParsePrefix(value); err == nil {
			proxies = append(proxies, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(value); err == nil {
			addr = addr.Unmap()
			proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		logrus.WithField("value", value).Warn("Некорректный адрес доверенного прокси")
	}
	return proxies
}

func (p trustedProxies) contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clientIP returns the peer address. Forwarding headers are consulted only
// when the peer is a trusted proxy; X-Forwarded-For is then read right to
// left and the first hop outside the trusted set is the client.
func clientIP(r *http.Request, trusted trustedProxies) string {
	remote := remoteIP(r)

	peer, err := netip.ParseAddr(remote)
	if err != nil || !trusted.contains(peer) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return remote
			}
			if !trusted.contains(hop) {
				return hop.Unmap().String()
			}
		}
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}

	return remote
}

// AuthRateLimitMiddleware throttles /api/auth/* per client IP and answers
// 429 once the bucket is empty. A non-positive rate disables it. The
// cleanup loop stops when ctx is done.
func AuthRateLimitMiddleware(ctx context.Context, cfg config.RateLimit) Middleware {
	if cfg.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := NewKeyedRateLimiter(cfg.RPS, cfg.Burst, cfg.IdleTTL)
	go func() {
		<-ctx.Done()
		limiter.Stop()
	}()

	trusted := parseTrustedProxies(cfg.TrustedProxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/auth/") {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r, trusted)
			if !limiter.Allow(key) {
				logrus.WithFields(logrus.Fields{
					"ip":   key,
					"path": r.URL.Path,
				}).Warn("Превышен лимит запросов")
				handlers.WriteError(w, "Слишком много запросов, попробуйте позже", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
