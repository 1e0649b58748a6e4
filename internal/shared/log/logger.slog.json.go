package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joshuarp/idgen-api/internal/shared/config"
)

const defaultServiceName = "idgen-api"

// NewJSONLogger builds the process logger and installs it as slog's default,
// so packages that fall back to slog.Default share its handler.
func NewJSONLogger(cfg config.ConfigProvider) *slog.Logger {
	logger := newJSONLogger(os.Stdout, cfg.GetString("logging.level"), serviceName(cfg))
	slog.SetDefault(logger)
	return logger
}

func newJSONLogger(w io.Writer, level, service string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, attr.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return attr
		},
	})

	return slog.New(handler).With("service", service)
}

func serviceName(cfg config.ConfigProvider) string {
	if name := strings.TrimSpace(cfg.GetString("app.name")); name != "" {
		return name
	}
	return defaultServiceName
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
