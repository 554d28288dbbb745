// Package media transcodes images, audio, and video. Image formats Go can
// code are handled in-process (stdlib plus x/image); everything else
// delegates to an ffmpeg subprocess bounded by a context timeout.
package media

import (
	"errors"
	"log/slog"
	"time"
)

// ErrConversionFailed wraps codec and subprocess faults.
var ErrConversionFailed = errors.New("media: conversion failed")

// ErrUnsupportedFormat is returned for a target format outside the
// category's set.
var ErrUnsupportedFormat = errors.New("media: unsupported format")

// Config configures a Transcoder.
type Config struct {
	// FFmpegPath is the ffmpeg binary (default: "ffmpeg").
	FFmpegPath string `json:"ffmpeg_path" yaml:"ffmpeg_path"`

	// Timeout bounds a single ffmpeg invocation (default: 5m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Minute
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Transcoder converts media files between formats.
type Transcoder struct {
	cfg Config
}

// New creates a Transcoder with the given configuration.
func New(cfg Config) *Transcoder {
	cfg.defaults()
	return &Transcoder{cfg: cfg}
}
