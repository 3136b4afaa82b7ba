package httpx

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// Logger writes one line per request. Probe endpoints are skipped to keep
// the log readable under liveness polling.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			return
		}
		rid, _ := c.Get("rid")
		uid := c.GetString(UserIDKey)
		if uid == "" {
			uid = "-"
		}
		log.Printf("[http] rid=%v user=%s %s %s status=%d dur=%s",
			rid, uid, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
