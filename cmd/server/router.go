package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/audit"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/medeiros-dev/notification-decision/internal/usecases/dndwindows"
	"github.com/medeiros-dev/notification-decision/internal/usecases/preferences"
	"github.com/medeiros-dev/notification-decision/internal/usecases/processevent"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "notification-decision"

func newRouter(s store.PreferencesStore, recorder audit.Recorder, otelServiceName string) *gin.Engine {
	processEventHandler := processevent.NewProcessEvent(s, recorder)
	preferencesHandler := preferences.NewPreferences(s)
	dndWindowsHandler := dndwindows.NewDndWindows(s)

	srv := gin.New()
	srv.Use(gin.Recovery())
	srv.Use(otelgin.Middleware(otelServiceName))
	srv.Use(requestMetrics())

	srv.POST("/event", processEventHandler.Handle)

	user := srv.Group("/user/:userId")
	user.GET("/preferences", preferencesHandler.Get)
	user.POST("/preferences", preferencesHandler.Set)
	user.PUT("/preferences", preferencesHandler.Update)
	user.GET("/dnd-windows", dndWindowsHandler.List)
	user.POST("/dnd-windows", dndWindowsHandler.Add)
	user.DELETE("/dnd-windows/:windowId", dndWindowsHandler.Remove)

	srv.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})
	srv.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
	return srv
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		if endpoint == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		metrics.HttpRequestsTotal.WithLabelValues(endpoint, http.StatusText(status)).Inc()
		metrics.HttpRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if status >= http.StatusInternalServerError {
			metrics.ErrorTotal.WithLabelValues("http_server_error").Inc()
		}
	}
}
