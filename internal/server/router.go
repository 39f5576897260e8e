package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/jobs-api/handlers"
	"github.com/jobboard/jobs-api/internal/job/handler"
	"github.com/jobboard/jobs-api/internal/job/service"
	"github.com/jobboard/jobs-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readyTimeout = 2 * time.Second

// NewRouter builds the gin engine serving the jobs API plus the liveness,
// readiness, metrics and swagger endpoints. A nil gatherer means the
// default Prometheus registry.
func NewRouter(svc service.Service, gatherer prometheus.Gatherer) *gin.Engine {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	startTime := time.Now()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())
	r.Use(middleware.CORS(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "server started")
	})

	// readiness: 200 only when the store answers
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		uptime := time.Since(startTime).String()
		if err := svc.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": gin.H{"store": false}, "error": err.Error(), "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": gin.H{"store": true}, "uptime": uptime})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	handlers.RegisterSwagger(r)
	handler.RegisterJobRoutes(r, svc)
	return r
}
