package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/sync/errgroup"

	"flood-watch/internal/cache"
	"flood-watch/internal/catalog"
	"flood-watch/internal/config"
	"flood-watch/internal/database"
	"flood-watch/internal/feed"
	"flood-watch/internal/gazetteer"
	"flood-watch/internal/geocode"
	"flood-watch/internal/handlers"
	"flood-watch/internal/logger"
	"flood-watch/internal/mq"
	"flood-watch/internal/ping"
	"flood-watch/internal/query"
	"flood-watch/internal/refresh"
	"flood-watch/internal/routing"
	"flood-watch/internal/viewport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.Development); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Gazetteer ---
	regions, err := gazetteer.New(gazetteer.TamilNaduRegions())
	if err != nil {
		logger.Fatalf(ctx, "gazetteer: %v", err)
	}
	logger.Infof(ctx, "gazetteer loaded with %d districts", regions.Len())

	// --- Database ---
	db, err := connectDatabase(ctx, cfg, openDatabase)
	if err != nil {
		logger.Fatalf(ctx, "database: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	if cfg.SeedDatabase {
		if err := seedDatabase(ctx, db, feed.NewDemo(cfg.DemoSeed, regions)); err != nil {
			logger.Fatalf(ctx, "seed: %v", err)
		}
	}

	// --- Redis ---
	redisCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		logger.Fatalf(ctx, "redis: %v", err)
	}
	defer redisCache.Close()
	logger.Infof(ctx, "redis connected")

	// --- RabbitMQ ---
	mqPublisher, err := mq.NewPublisher(ctx, cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf(ctx, "rabbitmq publisher: %v", err)
	}
	defer mqPublisher.Close()
	logger.Infof(ctx, "rabbitmq connected")

	// --- Catalogs and refresh ---
	alerts := catalog.NewAlerts()
	routes := catalog.NewRoutes()

	var src feed.Source
	if cfg.FeedSource == config.FeedDatabase {
		src = db
	} else {
		src = feed.NewDemo(cfg.DemoSeed, regions)
	}
	refresher := refresh.New(cfg.FeedSource, src, alerts, routes, redisCache)

	// --- Rescue operations ---
	response := catalog.NewResponse()
	if err := loadResponse(ctx, response, feed.NewDemo(cfg.DemoSeed, regions)); err != nil {
		logger.Fatalf(ctx, "rescue operations: %v", err)
	}

	// --- Routing collaborator ---
	var router routing.PathComputer = routing.StraightLine{}
	geocoders := geocode.Chain{geocode.NewNominatim()}
	if cfg.GoogleMapsAPIKey != "" {
		directions, err := routing.NewGoogleDirections(cfg.GoogleMapsAPIKey)
		if err != nil {
			logger.Fatalf(ctx, "google directions: %v", err)
		}
		router = routing.Fallback{Primary: directions, Secondary: routing.StraightLine{}}

		google, err := geocode.NewGoogle(cfg.GoogleMapsAPIKey)
		if err != nil {
			logger.Fatalf(ctx, "google geocoding: %v", err)
		}
		geocoders = append(geocode.Chain{google}, geocoders...)
		logger.Infof(ctx, "routing and geocoding via Google Maps")
	}

	facade := query.NewFacade(regions, alerts, routes, response, viewport.NewResolver(cfg.Viewport), router)

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          handlers.ErrorHandler,
	})

	app.Use(handlers.RequestContext())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency} ${respHeader:X-Request-ID}\n",
	}))
	app.Use(cors.New())

	h := &handlers.Handlers{
		Facade:            facade,
		DefaultSeverities: cfg.DefaultSeverities,
		Broadcaster:       mq.NewBroadcastPublisher(mqPublisher),
		Refresh:           refresher,
		SharedStats:       redisCache,
		Health:            ping.NewChecker(cfg.HealthTargets, cfg.HealthTTL),
		Geocoder:          geocoders,
		Dependencies: []handlers.Dependency{
			{Name: "rabbitmq", Check: mqPublisher.Check},
		},
	}
	if db != nil {
		h.Log = db
		h.Dependencies = append(h.Dependencies, handlers.Dependency{Name: "postgres", Check: db.Ping})
	}
	h.Register(app.Group("/api"))

	// Serve static frontend files
	app.Static("/", "./web")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return refresher.Run(gctx, cfg.RefreshSchedule)
	})
	g.Go(func() error {
		logger.Infof(gctx, "server starting on :%s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})

	// --- Graceful shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof(ctx, "shutting down...")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf(ctx, "server: %v", err)
	}
}

// connectDatabase opens Postgres. The database feed and seeding require it;
// otherwise a failed connection is logged and a nil DB returned, and the
// server runs without the broadcast log.
func connectDatabase(ctx context.Context, cfg *config.Config, open func(context.Context, string) (*database.DB, error)) (*database.DB, error) {
	db, err := open(ctx, cfg.DatabaseURL)
	if err == nil {
		logger.Infof(ctx, "database connected and migrated")
		return db, nil
	}
	if cfg.FeedSource == config.FeedDatabase || cfg.SeedDatabase {
		return nil, err
	}
	logger.Warnf(ctx, "database unavailable, broadcasts will not be recorded: %v", err)
	return nil, nil
}

// openDatabase connects to Postgres and applies the schema.
func openDatabase(ctx context.Context, url string) (*database.DB, error) {
	db, err := database.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// loadResponse fills the rescue-operations catalog once at startup. Operator
// changes live in memory and are not overwritten by catalog refreshes.
func loadResponse(ctx context.Context, resp *catalog.Response, src feed.ResponseSource) error {
	set, err := src.LoadResponse(ctx)
	if err != nil {
		return err
	}
	res := resp.Load(set)
	for _, reason := range res.Reasons() {
		logger.Warnf(ctx, "rescue operations: rejected %s", reason)
	}
	logger.Infof(ctx, "rescue operations: loaded %d records", res.Accepted)
	return nil
}

// seedDatabase writes one demo batch to Postgres so the database feed has
// something to serve.
func seedDatabase(ctx context.Context, db *database.DB, demo *feed.Demo) error {
	alerts, err := demo.LoadAlerts(ctx)
	if err != nil {
		return err
	}
	for _, a := range alerts {
		if err := db.UpsertAlert(ctx, a); err != nil {
			return err
		}
	}

	routes, err := demo.LoadRoutes(ctx)
	if err != nil {
		return err
	}
	for _, r := range routes {
		if err := db.UpsertRoute(ctx, r); err != nil {
			return err
		}
	}

	logger.Infof(ctx, "seed: wrote %d alerts and %d routes", len(alerts), len(routes))
	return nil
}
