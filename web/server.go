// Package web is the HTTP surface of the conversion service: multipart
// upload handlers for documents and media, JSON handlers for unit
// conversions, and template-rendered converter pages.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/morph/docpipe"
	"github.com/hazyhaar/morph/media"
	"github.com/hazyhaar/morph/units"
)

// Config configures the HTTP surface.
type Config struct {
	// StagingBase is where per-request staging dirs are created
	// (default: OS temp dir).
	StagingBase string `json:"staging_base" yaml:"staging_base"`

	// MultipartMemory caps the in-memory part of multipart parsing
	// (default: 32 MiB; larger parts spill to disk).
	MultipartMemory int64 `json:"multipart_memory" yaml:"multipart_memory"`

	// Logger for request-scoped fallback logging.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MultipartMemory <= 0 {
		c.MultipartMemory = 32 << 20
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server bundles the conversion engines behind HTTP handlers.
type Server struct {
	cfg      Config
	pipe     *docpipe.Pipeline
	media    *media.Transcoder
	currency *units.CurrencyConverter
}

// New creates a Server. All three engines are required.
func New(cfg Config, pipe *docpipe.Pipeline, transcoder *media.Transcoder, currency *units.CurrencyConverter) *Server {
	cfg.defaults()
	return &Server{cfg: cfg, pipe: pipe, media: transcoder, currency: currency}
}

// linearDomains lists the table-driven unit routes mounted under /convert.
// energy and angle live under /api/convert instead; the path split predates
// this service and its clients depend on it.
var linearDomains = []string{
	"length", "weight", "volume", "speed", "pressure", "power",
	"frequency", "data_transfer", "filesize", "voltage", "current",
	"resistance", "area",
}

// Routes mounts every handler on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// File conversions (multipart).
	r.Post("/convert/text", s.handleText)
	r.Post("/convert/image", s.handleImage)
	r.Post("/convert/audio", s.handleAudio)
	r.Post("/convert/video", s.handleVideo)

	// Unit conversions (JSON).
	for _, domain := range linearDomains {
		r.Post("/convert/"+domain, s.handleLinear(domain))
	}
	r.Post("/api/convert/energy", s.handleLinear("energy"))
	r.Post("/api/convert/angle", s.handleLinear("angle"))
	r.Post("/convert/temperature", s.handleTemperature)
	r.Post("/convert/color", s.handleColor)
	r.Post("/convert/currency", s.handleCurrency)
	r.Post("/convert/time", s.handleTime)

	// Converter pages.
	r.Get("/", s.handleIndex)
	for _, page := range converterPages {
		r.Get("/"+page.Slug+"-converter", s.handlePage(page))
	}
}
