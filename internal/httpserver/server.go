// Package httpserver exposes the triage pipeline over HTTP: the embedded UI
// page, the health check, POST /triage, and the recent-tickets listing.
package httpserver

import (
	"github.com/gin-gonic/gin"
)

func Router(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", h.Index)
	r.GET("/healthz", h.Health)
	r.POST("/triage", h.Triage)
	r.GET("/tickets/recent", h.Recent)

	return r
}
