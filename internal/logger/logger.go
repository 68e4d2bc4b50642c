package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Development mode switches to the
// human-readable console encoder with debug level enabled.
func New(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
