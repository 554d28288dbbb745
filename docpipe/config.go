package docpipe

import (
	"log/slog"
	"time"
)

// Config configures the document pipeline.
type Config struct {
	// MaxFileSize is the maximum input size to process (default: 100 MiB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// SofficePath is the LibreOffice binary used for PDF rendering
	// (default: "soffice").
	SofficePath string `json:"soffice_path" yaml:"soffice_path"`

	// RenderTimeout bounds a single PDF render (default: 120s).
	RenderTimeout time.Duration `json:"render_timeout" yaml:"render_timeout"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.SofficePath == "" {
		c.SofficePath = "soffice"
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 120 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
