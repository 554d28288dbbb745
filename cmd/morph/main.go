// Entry point for the morph conversion service — chi router, shield
// middleware stack, SQLite-backed rate limiting, optional MCP over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/cors"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/morph/dbopen"
	"github.com/hazyhaar/morph/docpipe"
	"github.com/hazyhaar/morph/media"
	"github.com/hazyhaar/morph/shield"
	"github.com/hazyhaar/morph/units"
	"github.com/hazyhaar/morph/web"
)

// fileConfig is the optional YAML config (CONFIG_FILE env). Env vars win
// over the file for the values both can set.
type fileConfig struct {
	Docpipe docpipe.Config `yaml:"docpipe"`
	Media   media.Config   `yaml:"media"`
	Web     web.Config     `yaml:"web"`
	Shield  struct {
		ClientPerHour int `yaml:"client_per_hour"`
		ClientPerDay  int `yaml:"client_per_day"`
	} `yaml:"shield"`
	CurrencyAPI string `yaml:"currency_api"`
}

func main() {
	port := env("PORT", "8080")
	logLevel := env("LOG_LEVEL", "info")
	ratePath := env("RATE_DB", "db/rate.db")
	mcpTransport := env("MCP_TRANSPORT", "")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Optional config file.
	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Error("config file", "path", path, "error", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			slog.Error("config parse", "path", path, "error", err)
			os.Exit(1)
		}
	}
	fc.Docpipe.Logger = logger
	fc.Media.Logger = logger
	fc.Web.Logger = logger
	if v := os.Getenv("SOFFICE_PATH"); v != "" {
		fc.Docpipe.SofficePath = v
	}
	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		fc.Media.FFmpegPath = v
	}
	if v := os.Getenv("STAGING_DIR"); v != "" {
		fc.Web.StagingBase = v
	}
	if v := os.Getenv("CURRENCY_API"); v != "" {
		fc.CurrencyAPI = v
	}

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Rate-limit DB (rules + counters).
	rateDB, err := dbopen.Open(ratePath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("rate db", "error", err)
		os.Exit(1)
	}
	defer rateDB.Close()
	if err := shield.Init(ctx, rateDB); err != nil {
		slog.Error("rate schema", "error", err)
		os.Exit(1)
	}

	// Conversion engines.
	pipe := docpipe.New(fc.Docpipe)
	transcoder := media.New(fc.Media)
	currency := units.NewCurrencyConverter(units.CurrencyConfig{BaseURL: fc.CurrencyAPI})
	srv := web.New(fc.Web, pipe, transcoder, currency)

	// Rate limiter: SQLite counters survive restarts; pages and health
	// checks stay exempt.
	limiter := shield.NewRateLimiter(shield.RateLimiterConfig{
		DB:              rateDB,
		Store:           shield.NewSQLiteStore(rateDB),
		ExcludePrefixes: []string{"/healthz", "/static/"},
		ClientPerHour:   fc.Shield.ClientPerHour,
		ClientPerDay:    fc.Shield.ClientPerDay,
	})
	go limiter.StartReloader(ctx.Done())

	// Router.
	r := chi.NewRouter()
	r.Use(shield.TraceID)
	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
	r.Use(shield.MaxBody(100 << 20))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)
	r.Use(limiter.Middleware)

	srv.Routes(r)

	// Optional MCP over streamable HTTP, sharing the document pipeline.
	if mcpTransport == "http" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "morph",
			Version: "1.0.0",
		}, nil)
		pipe.RegisterMCP(mcpSrv)
		r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return mcpSrv
		}, nil))
		slog.Info("MCP mounted", "path", "/mcp")
	}

	// HTTP server. Long write timeout: video transcodes are slow.
	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
