package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenantdash/internal/config"
	"tenantdash/internal/logger"
	"tenantdash/internal/mongo"
	"tenantdash/internal/mysql"
	"tenantdash/internal/redis"
	"tenantdash/internal/routing"
	"tenantdash/pkg/auth"
	"tenantdash/pkg/middleware"
	"tenantdash/pkg/robots"
	"tenantdash/pkg/session"
	"tenantdash/pkg/tenant"
	"tenantdash/pkg/user"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logger.Load(cfg.LogLevel)

	db := mysql.LoadDB(cfg.MySQLDSN)
	defer db.Close()

	mongoClient, mongoDB := mongo.LoadDB(cfg.MongoURI, cfg.MongoDBName)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	var sessions session.Repository
	switch cfg.SessionStore {
	case config.StoreRedis:
		client := redis.LoadClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()
		sessions = session.NewRedisSessionRepo(client, "tenantdash")
	default:
		sessions = session.NewMySQLSessionRepo(db)
	}

	tenantRepo := tenant.NewMongoRepo(mongoDB)
	if err := tenantRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Cannot create tenant indexes:", err)
	}
	tenantService := tenant.NewService(tenantRepo)
	userService := user.NewService(user.NewMySQLRepo(db), tenantService)

	authenticator := auth.New(sessions, auth.Config{
		Secret:       []byte(cfg.JWTSecret),
		TTL:          cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Panic(logger))
	api.Use(middleware.CheckJWT(authenticator, logger))

	routing.InitRoutes(api, authenticator, userService, tenantService, logger)
	routing.ServeRobots(r, robots.Default(robots.SitemapURL(cfg.SiteURL)))
	routing.ServeStaticFiles(r)
	routing.ServeFallback(r, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := routing.StartServer(ctx, cfg.Addr, r, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
