package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger suitable for library consumers that want
// segmentation diagnostics. Debug mode yields the human-readable development
// config at debug level; otherwise the JSON production config at info level.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
