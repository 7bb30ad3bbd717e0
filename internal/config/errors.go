package config

import "errors"

// Errors returned by configuration loading and validation.
var (
	// ErrInvalidMetrics indicates a non-positive font size or line height.
	ErrInvalidMetrics = errors.New("font size and line height must be positive")

	// ErrInvalidColor indicates a theme color that is not a hex string.
	ErrInvalidColor = errors.New("invalid theme color")

	// ErrWatcherClosed indicates use of a watcher after Close.
	ErrWatcherClosed = errors.New("config watcher closed")
)
