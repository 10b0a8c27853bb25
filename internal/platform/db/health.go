package db

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var startedAt = time.Now()

// HealthHandler returns a handler for the health check endpoint. It reports
// process uptime and whether the database currently answers a ping.
func HealthHandler(client *mongo.Client, env string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		database := "Connected"
		status := http.StatusOK
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			database = "Disconnected"
			status = http.StatusServiceUnavailable
		}

		return c.JSON(status, map[string]interface{}{
			"message":     "OK",
			"uptime":      time.Since(startedAt).Seconds(),
			"timestamp":   time.Now().UnixMilli(),
			"environment": env,
			"database":    database,
		})
	}
}
