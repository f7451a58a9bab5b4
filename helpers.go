package orizuru

import (
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// safeNameRe matches strings containing only safe characters for Redis key components.
var safeNameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// validateQueueName checks a logical queue name for safe characters.
// A ":" in the name would collide with the key format separators.
func validateQueueName(name string) error {
	if name == "" || len(name) > 128 || !safeNameRe.MatchString(name) {
		return ErrInvalidQueueName
	}
	return nil
}

// validateConsumerID checks a consumer id for safe characters.
func validateConsumerID(id string) error {
	if id == "" || len(id) > 128 || !safeNameRe.MatchString(id) {
		return ErrInvalidConsumerID
	}
	return nil
}

// NewLoggerFromLevel creates a slog.Logger at the given level.
// Falls back to slog.Default() if level is empty or unrecognized.
func NewLoggerFromLevel(level string) *slog.Logger {
	if level == "" {
		return slog.Default()
	}
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return slog.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
