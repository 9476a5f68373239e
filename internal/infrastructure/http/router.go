package http

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identityadmin/admin-service/internal/infrastructure/http/handlers"
)

// RegisterProbes adds the unauthenticated health routes to e. MongoDB is
// required for readiness; Redis only backs the geo cache, so a nil or
// failing client degrades but does not fail the probe.
func RegisterProbes(e *echo.Echo, db *mongo.Database, rdb *redis.Client) {
	checks := []handlers.Check{{
		Name:     "mongodb",
		Required: true,
		Ping: func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
	}}
	if rdb != nil {
		checks = append(checks, handlers.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
}
