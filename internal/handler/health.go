package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// Redis is optional: a nil client reports "disabled" and keeps the service up.
func Health(db *gorm.DB, rdb *redis.Client, smtp *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}
		// Parked e-mails need manual re-send.
		dlq, _ := worker.LongitudDLQ(ctx, rdb, worker.QueueEmail)

		smtpStatus := "disabled"
		if smtp != nil {
			smtpStatus = smtp.State().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"smtp":  smtpStatus,
			"dlq":   dlq,
		})
	}
}
