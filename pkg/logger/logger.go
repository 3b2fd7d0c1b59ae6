// Package logger builds the zap loggers shared by the binaries.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a console logger for development and a JSON logger otherwise.
func New(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "development") || strings.EqualFold(env, "dev") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OrNop never returns nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
