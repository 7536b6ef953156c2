package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// untrackedPrefixes are paths that never count as a visit.
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/api/",
	"/contact/reset",
	"/favicon",
	"/privacy",
	"/healthz",
}

// Tracking returns middleware that records page views in the background.
// Requests carrying "DNT: 1" are not recorded.
func (s *Store) Tracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !shouldTrack(path, c.GetHeader("DNT")) {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.TrackVisit(ctx, ip, ua, path); err != nil {
				s.logger.Warn("visitor tracking failed", "error", err)
			}
		}()
		c.Next()
	}
}

func shouldTrack(path, dnt string) bool {
	if dnt == "1" {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}
