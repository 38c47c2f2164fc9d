package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/martingh15/proyecto-backend/internal/respuesta"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiters keeps one token bucket per client IP and forgets idle ones.
type ipLimiters struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	buckets map[string]*bucket
	ttl     time.Duration
	lastGC  time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newIPLimiters(rps rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{
		rps:     rps,
		burst:   burst,
		buckets: make(map[string]*bucket),
		ttl:     10 * time.Minute,
		lastGC:  time.Now(),
	}
}

func (l *ipLimiters) allow(ip string) bool {
	now := time.Now()
	l.mu.Lock()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	if now.Sub(l.lastGC) > l.ttl {
		for k, v := range l.buckets {
			if now.Sub(v.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastGC = now
	}
	l.mu.Unlock()
	return b.lim.Allow()
}

func rateLimitPerIP(rps rate.Limit, burst int, mensaje string) gin.HandlerFunc {
	lims := newIPLimiters(rps, burst)
	return func(c *gin.Context) {
		if lims.allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "60")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, respuesta.Error(http.StatusTooManyRequests, mensaje))
	}
}

// RateLimiter is the general per-IP token bucket for the whole API.
func RateLimiter(rps, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimitPerIP(rate.Limit(rps), burst, "Demasiadas solicitudes. Intente nuevamente en unos segundos.")
}

// AuthRateLimiter limits login and password recovery to 20 requests per
// minute per IP.
func AuthRateLimiter() gin.HandlerFunc {
	return rateLimitPerIP(rate.Every(3*time.Second), 20, "Demasiados intentos. Intente en 1 minuto.")
}
