package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"sitedocs/internal/bootstrap"
	"sitedocs/internal/transport/http/response"
)

type HealthHandler struct {
	app *bootstrap.App
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check reports process liveness plus the state of the two hard
// dependencies. A degraded dependency flips the status but still answers
// 200; orchestrators read the body.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	status := "ok"

	dbState := "up"
	if sqlDB, err := h.app.DB.DB(); err != nil {
		dbState = "down"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbState = "down"
	}
	if dbState == "down" {
		status = "degraded"
	}

	redisState := "up"
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		redisState = "down"
		status = "degraded"
	}

	response.OK(c, gin.H{
		"status": status,
		"db":     dbState,
		"redis":  redisState,
		"uptime": time.Since(h.app.StartedAt).Round(time.Second).String(),
	})
}
