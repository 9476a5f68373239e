package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/identityadmin/admin-service/internal/api"
	"github.com/identityadmin/admin-service/internal/core/ports"
	"github.com/identityadmin/admin-service/internal/core/service"
	"github.com/identityadmin/admin-service/internal/infrastructure/db/mongo"
	"github.com/identityadmin/admin-service/internal/infrastructure/db/redis"
	infrahttp "github.com/identityadmin/admin-service/internal/infrastructure/http"
	"github.com/identityadmin/admin-service/internal/pkg/config"
	"github.com/identityadmin/admin-service/pkg/logger"
)

const serviceName = "admin-service"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		boot := logger.Get()
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}
	if cfg.SeedGeo {
		n, err := mongo.SeedGeo(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("seed geo reference data")
		}
		log.Info().Int64("inserted", n).Msg("geo reference data seeded")
	}

	// --- Geo cache (optional) ---
	var geo ports.GeoRepository = mongo.NewGeoRepository(db)
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, geo cache disabled")
			rdb = nil
		} else {
			defer rdb.Close()
			geo = redis.NewGeoCache(geo, rdb, cfg.Redis.GeoTTL, logger.Component("geo_cache"))
		}
	}

	// --- Core ---
	users := mongo.NewUserRepository(db)
	persons := mongo.NewPersonRepository(db)
	addresses := mongo.NewAddressRepository(db)
	roles := mongo.NewRoleRepository(db)
	tx := mongo.NewTxManager(client, cfg.Mongo.Transactions)

	resolver := service.NewGeoResolver(geo, logger.Component("geo_resolver"))
	mapper := service.NewEntityMapper(resolver, persons, addresses, logger.Component("entity_mapper"))
	provisioner := service.NewRoleProvisioner(roles, cfg.DefaultRole, logger.Component("role_provisioner"))
	creds := service.NewCredentialManager(users, persons, cfg.BcryptCost, logger.Component("credential_manager"))

	e := api.NewRouter(api.Services{
		Users:     service.NewUserService(users, roles, tx, mapper, provisioner, creds, logger.Component("user_service")),
		Persons:   service.NewPersonService(persons, tx, mapper, logger.Component("person_service")),
		Addresses: service.NewAddressService(addresses, tx, mapper, resolver, logger.Component("address_service")),
	}, api.Config{
		JWTSecret: cfg.JWTSecret,
		Logger:    logger.Component("http"),
	})
	infrahttp.RegisterProbes(e, db, rdb)

	// --- Serve ---
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
