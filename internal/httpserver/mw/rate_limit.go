package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/logger"
	"github.com/MrSnakeDoc/oneshop/internal/utils"
)

const (
	sweepEvery     = time.Minute
	defaultIdleTTL = 15 * time.Minute
)

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Burst      int           // requests a client may send back to back
	PerMinute  int           // sustained requests per minute
	MaxClients int           // tracked clients before an early sweep, 0 for no cap
	IdleTTL    time.Duration // clients idle this long are forgotten
	TrustProxy bool
	Now        func() time.Time
	Logger     logger.Logger // optional, logs throttled clients at debug
}

type allowance struct {
	tokens float64
	at     time.Time
}

type verdict struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
}

type clientLimiter struct {
	cfg     RateLimitConfig
	perSec  float64
	mu      sync.Mutex
	clients map[string]*allowance
	swept   time.Time
}

func newClientLimiter(cfg RateLimitConfig) *clientLimiter {
	cfg.Burst = max(cfg.Burst, 1)
	cfg.PerMinute = max(cfg.PerMinute, 1)
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &clientLimiter{
		cfg:     cfg,
		perSec:  float64(cfg.PerMinute) / 60,
		clients: make(map[string]*allowance),
		swept:   cfg.Now(),
	}
}

// take spends one token from the client's bucket.
func (cl *clientLimiter) take(ip string, now time.Time) verdict {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Sub(cl.swept) >= sweepEvery || (cl.cfg.MaxClients > 0 && len(cl.clients) >= cl.cfg.MaxClients) {
		cl.forgetIdle(now)
	}

	a, ok := cl.clients[ip]
	if !ok {
		a = &allowance{tokens: float64(cl.cfg.Burst), at: now}
		cl.clients[ip] = a
	}
	if dt := now.Sub(a.at); dt > 0 {
		a.tokens = math.Min(float64(cl.cfg.Burst), a.tokens+dt.Seconds()*cl.perSec)
		a.at = now
	}

	if a.tokens < 1 {
		wait := time.Duration((1 - a.tokens) / cl.perSec * float64(time.Second))
		return verdict{retryAfter: wait}
	}
	a.tokens--
	return verdict{allowed: true, remaining: int(a.tokens)}
}

func (cl *clientLimiter) forgetIdle(now time.Time) {
	for ip, a := range cl.clients {
		if now.Sub(a.at) > cl.cfg.IdleTTL {
			delete(cl.clients, ip)
		}
	}
	cl.swept = now
}

func (cl *clientLimiter) tracked() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}

// RateLimit throttles each client IP with a token bucket.
// Throttled requests get 429 with Retry-After and never reach next.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return newClientLimiter(cfg).middleware
}

func (cl *clientLimiter) middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(cl.cfg.Burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r, cl.cfg.TrustProxy)
		v := cl.take(ip, cl.cfg.Now())

		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))

		if !v.allowed {
			secs := max(int(math.Ceil(v.retryAfter.Seconds())), 1)
			if cl.cfg.Logger != nil {
				cl.cfg.Logger.Debug("client throttled",
					logger.String("client_ip", ip),
					logger.String("path", r.URL.Path),
					logger.Int("retry_after_s", secs))
			}
			h.Set("Retry-After", strconv.Itoa(secs))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many requests"}` + "\n"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
