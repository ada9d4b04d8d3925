package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/cdcadmin/internal/config"
)

// NewLogger creates a structured zerolog.Logger writing JSON to stdout with
// the service name attached.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return New(os.Stdout, cfg.ServiceName, cfg.LogLevel)
}

// New builds a logger on w. Unknown levels fall back to info.
func New(w io.Writer, service, level string) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return ctx.Logger().Level(lvl)
}
