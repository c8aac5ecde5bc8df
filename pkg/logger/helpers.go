package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs a completed HTTP request at a level matching its status
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		l.DebugWithFields("HTTP request completed", fields)
	case statusCode >= 500:
		l.WarnWithFields("HTTP request server error", fields)
	default:
		l.DebugWithFields("HTTP request not successful", fields)
	}
}

// LogDownload logs the outcome of one photo
func LogDownload(l Logger, photo, variant string, skipped bool, err error) {
	entry := l.WithFields(map[string]interface{}{
		"photo":   photo,
		"variant": variant,
	})

	switch {
	case err != nil:
		entry.WithError(err).Warn("Photo download failed")
	case skipped:
		entry.Debug("Photo already on disk")
	default:
		entry.Debug("Photo downloaded")
	}
}

// LogRun logs the summary of a finished run
func LogRun(l Logger, runID, address string, total, succeeded, failed int, cancelled bool, duration time.Duration) {
	fields := map[string]interface{}{
		"run_id":    runID,
		"address":   address,
		"total":     total,
		"succeeded": succeeded,
		"failed":    failed,
		"cancelled": cancelled,
		"duration":  duration,
	}

	if failed > 0 || cancelled {
		l.WarnWithFields("Run finished with missing photos", fields)
		return
	}
	l.InfoWithFields("Run finished", fields)
}

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, settings map[string]interface{}) {
	entry := l.WithField("component", component)
	if len(settings) > 0 {
		entry = entry.WithFields(settings)
	}
	entry.Debug("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(l Logger, component string, reason string) {
	l.WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Debug("Component stopped")
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
