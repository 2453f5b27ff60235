package rollbar

import (
	"context"
	"sync"
)

var (
	globalMu sync.RWMutex
	global   *Client
)

// SetGlobal installs the client used by the package-level reporting
// helpers.
func SetGlobal(c *Client) {
	globalMu.Lock()
	global = c
	globalMu.Unlock()
}

// Global returns the installed global client, or nil when none is set.
func Global() *Client {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// report delegates to the global client. With no global client installed
// reporting is effectively disabled.
func report(level Level, toLog any, extra map[string]any) (Response, error) {
	g := Global()
	if g == nil {
		return responseDisabled(), nil
	}
	return g.Report(level, toLog, extra)
}

// Debug reports toLog at debug level using the global client.
func Debug(toLog any, extra map[string]any) (Response, error) {
	return report(LevelDebug, toLog, extra)
}

// Info reports toLog at info level using the global client.
func Info(toLog any, extra map[string]any) (Response, error) {
	return report(LevelInfo, toLog, extra)
}

// Notice reports toLog at notice level using the global client.
func Notice(toLog any, extra map[string]any) (Response, error) {
	return report(LevelNotice, toLog, extra)
}

// Warning reports toLog at warning level using the global client.
func Warning(toLog any, extra map[string]any) (Response, error) {
	return report(LevelWarning, toLog, extra)
}

// Error reports toLog at error level using the global client.
func Error(toLog any, extra map[string]any) (Response, error) {
	return report(LevelError, toLog, extra)
}

// Critical reports toLog at critical level using the global client.
func Critical(toLog any, extra map[string]any) (Response, error) {
	return report(LevelCritical, toLog, extra)
}

// Wait flushes the global client's queue and blocks until delivery
// completes. A no-op when no global client is set.
func Wait(ctx context.Context) error {
	g := Global()
	if g == nil {
		return nil
	}
	_, err := g.FlushAndWait(ctx)
	return err
}
