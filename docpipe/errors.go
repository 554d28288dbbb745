package docpipe

import "errors"

// ErrUnsupportedPair is returned when no conversion edge exists between the
// source and target formats. Checked before any parsing work.
var ErrUnsupportedPair = errors.New("docpipe: unsupported conversion pair")

// ErrUnsupportedFormat is returned for an extension with no known format.
var ErrUnsupportedFormat = errors.New("docpipe: unsupported format")

// ErrConversionFailed wraps parser, writer, and renderer faults.
var ErrConversionFailed = errors.New("docpipe: conversion failed")

// ErrTooLarge is returned when the input exceeds Config.MaxFileSize.
var ErrTooLarge = errors.New("docpipe: file too large")
