// Package log wraps the default slog logger with helpers that keep the caller's source position
// and format error causes.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"hermannm.dev/wrap"
)

// Debug, Info and Warn take optional slog attributes as key-value pairs after the message.

func Debug(msg string, attrs ...any) {
	log(slog.LevelDebug, msg, attrs)
}

func Debugf(format string, args ...any) {
	log(slog.LevelDebug, fmt.Sprintf(format, args...), nil)
}

func Info(msg string, attrs ...any) {
	log(slog.LevelInfo, msg, attrs)
}

func Infof(format string, args ...any) {
	log(slog.LevelInfo, fmt.Sprintf(format, args...), nil)
}

func Warn(msg string, attrs ...any) {
	log(slog.LevelWarn, msg, attrs)
}

func Warnf(format string, args ...any) {
	log(slog.LevelWarn, fmt.Sprintf(format, args...), nil)
}

// WarnError logs a recoverable error at the warning level, with msg as context.
func WarnError(err error, msg string) {
	log(slog.LevelWarn, errorMessage(err, msg), nil)
}

func Error(err error, msg string) {
	log(slog.LevelError, errorMessage(err, msg), nil)
}

func Errorf(err error, format string, args ...any) {
	if err == nil {
		log(slog.LevelError, fmt.Sprintf(format, args...), nil)
	} else {
		log(slog.LevelError, wrap.Errorf(err, format, args...).Error(), nil)
	}
}

func errorMessage(err error, msg string) string {
	switch {
	case err == nil:
		return msg
	case msg == "":
		return err.Error()
	default:
		return wrap.Error(err, msg).Error()
	}
}

func log(level slog.Level, msg string, attrs []any) {
	logger := slog.Default()
	if !logger.Enabled(context.Background(), level) {
		return
	}

	// Follows the example from the slog package of how to properly wrap its functions:
	// https://pkg.go.dev/log/slog#hdr-Wrapping_output_methods
	var callers [1]uintptr
	// Skips 3, because we want to skip:
	// - the call to Callers
	// - the call to log (this function)
	// - the call to the public log function that uses this function
	runtime.Callers(3, callers[:])

	record := slog.NewRecord(time.Now(), level, msg, callers[0])
	if len(attrs) > 0 {
		record.Add(attrs...)
	}
	_ = logger.Handler().Handle(context.Background(), record)
}
