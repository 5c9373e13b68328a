package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MsgTooManyRequests is shown to a browser posting auth forms too fast
const MsgTooManyRequests = "Too many requests. Please wait a moment and try again."

// Limiter hands out one token bucket per browser session
type Limiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	browsers map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter allows perSecond requests with the given burst per browser
func NewLimiter(perSecond float64, burst int) *Limiter {
	return &Limiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
		browsers: make(map[string]*visitor),
	}
}

// Allow reports whether sid may make another request now
func (l *Limiter) Allow(sid string) bool {
	now := l.now()

	l.mu.Lock()
	v, ok := l.browsers[sid]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.browsers[sid] = v
	}
	v.lastSeen = now
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// Evict forgets browsers that have not posted for longer than idle.
// A returning browser starts again with a full bucket.
func (l *Limiter) Evict(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for sid, v := range l.browsers {
		if v.lastSeen.Before(cutoff) {
			delete(l.browsers, sid)
			evicted++
		}
	}
	return evicted
}

// Tracked returns the number of browsers holding a bucket
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.browsers)
}

// RateLimit throttles POSTs per browser. It must run after BrowserSession.
func RateLimit(l *Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := GetBrowser(r.Context())
			if r.Method != http.MethodPost || b == nil || l.Allow(b.SID) {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("too many requests", slog.String("sid", b.SID), slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			http.Error(w, MsgTooManyRequests, http.StatusTooManyRequests)
		})
	}
}
