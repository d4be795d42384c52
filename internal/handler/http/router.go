package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"

	"github.com/yokitheyo/mediacompressor/internal/domain"
	"github.com/yokitheyo/mediacompressor/internal/handler/middleware"
)

// NewRouter builds the ops endpoint: health, Prometheus metrics and job lookup.
func NewRouter(jobs domain.JobService) *ginext.Engine {
	engine := ginext.New("")
	engine.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
	)

	engine.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	metrics := promhttp.Handler()
	engine.GET("/metrics", func(c *ginext.Context) {
		metrics.ServeHTTP(c.Writer, c.Request)
	})

	NewJobHandler(jobs).RegisterRoutes(engine)
	return engine
}
