package sentry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

type Config struct {
	DSN              string
	Environment      string
	Release          string
	ServerName       string
	TracesSampleRate float64
}

// Context keys promoted to searchable tags.
var tagKeys = []string{"pipe_id", "spreadsheet_id"}

// Init initializes Sentry. An empty DSN leaves error tracking disabled.
func Init(cfg Config, logger *slog.Logger) error {
	if cfg.DSN == "" {
		if logger != nil {
			logger.Warn("Sentry DSN not configured - error tracking disabled")
		}
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		ServerName:       cfg.ServerName,
		TracesSampleRate: cfg.TracesSampleRate,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// Filter out sensitive data
			if event.Request != nil {
				if event.Request.Headers != nil {
					delete(event.Request.Headers, "Authorization")
					delete(event.Request.Headers, "Cookie")
				}
				// request bodies carry spreadsheet ids of every integration
				event.Request.Data = ""
			}
			return event
		},
	})

	if err != nil {
		if logger != nil {
			logger.Error("Failed to initialize Sentry", "error", err)
		}
		return fmt.Errorf("sentry init: %w", err)
	}

	if logger != nil {
		logger.Info("Sentry initialized", "environment", cfg.Environment, "release", cfg.Release)
	}

	return nil
}

// CaptureException captures an exception in Sentry with additional context.
// Each call gets its own scope so concurrent integrations never share context.
func CaptureException(err error, context map[string]interface{}, logger *slog.Logger) {
	if err == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		applyContext(scope, context)
		hub.CaptureException(err)
	})

	if logger != nil {
		logger.Debug("Exception captured in Sentry", "error", err.Error())
	}
}

// CaptureMessage captures a message in Sentry.
func CaptureMessage(message string, level sentry.Level, context map[string]interface{}, logger *slog.Logger) {
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		applyContext(scope, context)
		hub.CaptureMessage(message)
	})

	if logger != nil {
		logger.Debug("Message captured in Sentry", "message", message, "level", level)
	}
}

func applyContext(scope *sentry.Scope, context map[string]interface{}) {
	for key, value := range context {
		m, ok := value.(map[string]interface{})
		if !ok {
			scope.SetContext(key, sentry.Context{"value": value})
			continue
		}
		scope.SetContext(key, sentry.Context(m))
		for k, v := range tagsOf(m) {
			scope.SetTag(k, v)
		}
	}
}

// tagsOf returns the non-empty tag values found in a context group.
func tagsOf(group map[string]interface{}) map[string]string {
	tags := map[string]string{}
	for _, key := range tagKeys {
		if v, ok := group[key].(string); ok && v != "" {
			tags[key] = v
		}
	}
	return tags
}

// Flush waits for all events to be sent to Sentry.
// Call this before function termination to ensure events are sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// RecoverAndCapture recovers from a panic and captures it in Sentry.
func RecoverAndCapture(logger *slog.Logger) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", r)
		}
		CaptureException(err, nil, logger)
		Flush(2 * time.Second)
		panic(r) // Re-panic after capturing
	}
}
