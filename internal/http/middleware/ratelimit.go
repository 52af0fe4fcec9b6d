package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
)

// clientLimiter tracks a per-client token bucket and its last use so idle
// entries can be evicted.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-client-IP request budget expressed in
// requests per minute. Zero or negative disables the limit.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
}

// NewRateLimiter builds a limiter allowing rpm requests per minute per
// client with a burst of rpm/10 (minimum 5).
func NewRateLimiter(rpm int) *RateLimiter {
	burst := rpm / 10
	if burst < 5 {
		burst = 5
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(rpm) / 60.0),
		burst:   burst,
	}
}

// Handler returns the gin middleware enforcing the limit.
func (r *RateLimiter) Handler() gin.HandlerFunc {
	if r.limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if !r.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apperror.Body(apperror.KindClientInput, "too many requests"))
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[key] = cl
	}
	cl.lastSeen = time.Now()

	if len(r.clients) > 10000 {
		r.evictLocked()
	}
	return cl.limiter.Allow()
}

// evictLocked drops entries idle for more than ten minutes.
func (r *RateLimiter) evictLocked() {
	cutoff := time.Now().Add(-10 * time.Minute)
	for key, cl := range r.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(r.clients, key)
		}
	}
}
