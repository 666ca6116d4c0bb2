package middleware

import (
	"net"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// client holds a per-IP rate limiter and the time it was last seen so
// stale entries can be evicted.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a per-IP token bucket: rps tokens per second with the
// given burst. A background goroutine drops IPs not seen for 3 minutes.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		for {
			time.Sleep(time.Minute)
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			ip = c.Request.RemoteAddr
		}

		mu.Lock()
		cl, found := clients[ip]
		if !found {
			cl = &client{limiter: rate.NewLimiter(rps, burst)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			HTTPHelper.SendError(c, "rate limit exceeded", HTTPHelper.EmptyJsonMap(), 429, `rateLimited`)
			c.Abort()
			return
		}

		c.Next()
	}
}
