package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mkowalik/carscout/config"
	"github.com/mkowalik/carscout/internal/assist"
	"github.com/mkowalik/carscout/internal/ingest"
	"github.com/mkowalik/carscout/internal/session"
	"github.com/mkowalik/carscout/internal/session/inmemory"
	redissession "github.com/mkowalik/carscout/internal/session/redis"
	"github.com/mkowalik/carscout/internal/store"
)

func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/static", "web/static")

	renderer, err := NewRenderer("web/templates/*.html")
	if err != nil {
		return err
	}
	e.Renderer = renderer

	ctx := context.Background()
	dsn := cfg.Storage.Postgres.DSN()
	_ = Migrate("file://migrations", dsn, "up", 0)

	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	seeder := ingest.NewSeeder(st)
	if cfg.Ingest.SeedOnStart {
		n, err := st.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			// A missing data file is a startup failure, not a warning.
			if _, err := seeder.Run(ctx, cfg.Ingest.CSVPath, cfg.Ingest.Limit); err != nil {
				return err
			}
		}
	}

	var rdb *redis.Client
	if cfg.Assistant.SessionStore == string(session.RedisStore) || cfg.Ingest.RefreshCron != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
	}

	var sessions session.Store
	switch session.StoreType(cfg.Assistant.SessionStore) {
	case session.RedisStore:
		sessions = redissession.NewStore(rdb)
	default:
		sessions = inmemory.NewStore()
	}

	sh := &SearchHandler{Store: st, Ranking: cfg.Ranking}
	sh.Register(e)

	ah := &AssistantHandler{
		Store:    st,
		Sessions: sessions,
		Machine:  &assist.Machine{CurrentYear: cfg.Ranking.CurrentYear},
		Ranking:  cfg.Ranking,
		Cfg:      cfg.Assistant,
	}
	ah.Register(e)

	if cfg.Ingest.RefreshCron != "" {
		ref := &Refresher{
			Seeder:   seeder,
			CSVPath:  cfg.Ingest.CSVPath,
			Limit:    cfg.Ingest.Limit,
			CronSpec: cfg.Ingest.RefreshCron,
			Rdb:      rdb,
			Stop:     make(chan struct{}),
		}
		ref.Start()
	}

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
