package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goboard/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}

	if sqlDB, err := h.app.MySQL.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["mysql"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["mysql"] = "up"
	}

	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["redis"] = "up"
	}

	c.JSON(status, gin.H{
		"name":   h.app.Config.App.Name,
		"uptime": time.Since(h.app.StartedAt).String(),
		"checks": checks,
	})
}
