package util

import (
	"context"
	"log/slog"
	"time"
)

// ClampInt a value between min and max values
func ClampInt(value, _min, _max int) int {
	return min(max(value, _min), _max)
}

// IndexOf returns the position of v in elems, or -1
func IndexOf[T comparable](elems []T, v T) int {
	for i, s := range elems {
		if v == s {
			return i
		}
	}
	return -1
}

// Contains reports whether v is in elems
func Contains[T comparable](elems []T, v T) bool {
	return IndexOf(elems, v) >= 0
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that discards everything; packages use it
// until a caller supplies a real one.
func NopLogger() *slog.Logger {
	return slog.New(nopHandler{})
}

// Duration logs how long something took, use with defer
//
//	defer util.Duration(logger, time.Now(), "game.Run")
func Duration(logger *slog.Logger, start time.Time, name string) {
	logger.Debug("elapsed", "name", name, "duration", time.Since(start))
}
