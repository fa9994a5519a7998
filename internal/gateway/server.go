package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"directory-console/internal/common/logger"
)

// Options configures NewRouter.
type Options struct {
	Guard    *RouteGuard
	Upstream *url.URL
	Logger   logger.Logger
	// Metrics exposes /metrics when true.
	Metrics bool
}

// NewRouter serves health and metrics endpoints itself and sends every
// other request through the guard to the upstream UI.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "gateway"})

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	r.GET("/ready", func(c *gin.Context) {
		if opts.Upstream == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": "no upstream configured",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	handlers := []gin.HandlerFunc{}
	if opts.Guard != nil {
		handlers = append(handlers, opts.Guard.Middleware())
	}
	handlers = append(handlers, upstreamHandler(opts.Upstream, log))
	r.NoRoute(handlers...)
	return r
}

func upstreamHandler(upstream *url.URL, log logger.Logger) gin.HandlerFunc {
	if upstream == nil {
		return func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No upstream configured"})
		}
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("Upstream request failed", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		w.WriteHeader(http.StatusBadGateway)
	}
	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"clientIp": c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("Request failed", fields)
			return
		}
		log.Debug("Request served", fields)
	}
}
