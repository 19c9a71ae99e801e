// Package ui provides the notification capability for audit lifecycle events.
//
// The helpers translate pipeline outcomes into concise messages so that
// command feedback remains actionable for CLI users while detailed telemetry
// continues to flow through structured loggers.
package ui
