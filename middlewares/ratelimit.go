package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateWindow struct {
	windowStart time.Time
	count       int
}

// RateLimitMiddleware applies a fixed-window request cap per client,
// keyed by IP plus user agent. This protects the translation endpoints
// from a single misbehaving client burning the upstream quota.
func RateLimitMiddleware(limit int, window time.Duration) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*rateWindow)
	)

	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.GetHeader("User-Agent")
		now := time.Now()

		mu.Lock()
		w, ok := clients[key]
		if !ok || now.Sub(w.windowStart) >= window {
			w = &rateWindow{windowStart: now}
			clients[key] = w
		}
		w.count++
		over := w.count > limit

		// Opportunistic sweep so the map does not grow unbounded.
		if len(clients) > 10000 {
			for k, v := range clients {
				if now.Sub(v.windowStart) >= window {
					delete(clients, k)
				}
			}
		}
		mu.Unlock()

		if over {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
