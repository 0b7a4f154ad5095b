// Package status exposes a small HTTP surface for operators watching a
// long-running campaign: health, Prometheus metrics, and live progress.
package status

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kessler0712/ColdMailer/internal/campaign"
	"github.com/Kessler0712/ColdMailer/pkg/metrics"
)

// Progresser yields a snapshot of the running campaign.
type Progresser interface {
	Progress() campaign.Summary
}

func NewHTTPServer(addr string, p Progresser) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/progress", func(c *gin.Context) {
		c.JSON(http.StatusOK, p.Progress())
	})

	return &http.Server{
		Addr:    addr,
		Handler: r,
	}
}
