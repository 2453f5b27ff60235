package rollbar

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Version is the notifier version stamped on every payload.
const Version = "1.0.0"

const notifierName = "cresjie/rollbar"

// Payload is the assembled, in-flight record for one report. It is passed
// through the transform, serialize and scrub stages, each of which may
// replace it; once the send stage begins only its encoded copy travels.
type Payload struct {
	AccessToken string
	Data        map[string]any
}

// DataBuilder produces the normalized event record from the raw report
// inputs. The default builder stamps environment, timestamp, host, a fresh
// UUID and notifier metadata; applications can substitute their own via
// Config.DataBuilder.
type DataBuilder interface {
	BuildData(level Level, toLog any, extra map[string]any) map[string]any
}

type dataBuilder struct {
	environment string
	codeVersion string
	host        string
	custom      map[string]any
}

func newDataBuilder(cfg Config) *dataBuilder {
	host := cfg.Host
	if host == "" {
		host, _ = os.Hostname()
	}
	return &dataBuilder{
		environment: cfg.Environment,
		codeVersion: cfg.CodeVersion,
		host:        host,
		custom:      cfg.Custom,
	}
}

func (b *dataBuilder) BuildData(level Level, toLog any, extra map[string]any) map[string]any {
	data := map[string]any{
		"environment": b.environment,
		"level":       level.String(),
		"timestamp":   time.Now().Unix(),
		"platform":    runtime.GOOS,
		"language":    "go",
		"uuid":        uuid.NewString(),
		"notifier": map[string]any{
			"name":    notifierName,
			"version": Version,
		},
		"server": map[string]any{
			"host": b.host,
		},
		"body": buildBody(toLog, extra),
	}
	if b.codeVersion != "" {
		data["code_version"] = b.codeVersion
	}
	if len(b.custom) > 0 {
		data["custom"] = b.custom
	}
	return data
}

// buildBody renders toLog as either a trace body (for errors) or a message
// body (for everything stringable). extra rides along inside the body.
func buildBody(toLog any, extra map[string]any) map[string]any {
	if err := asError(toLog); err != nil {
		return map[string]any{
			"trace": map[string]any{
				"exception": map[string]any{
					"class":   fmt.Sprintf("%T", rootError(err)),
					"message": err.Error(),
				},
				"frames": stackFrames(),
				"extra":  extra,
			},
		}
	}

	message := map[string]any{
		"body": fmt.Sprint(toLog),
	}
	for k, v := range extra {
		if k == "body" {
			continue
		}
		message[k] = v
	}
	return map[string]any{"message": message}
}

func asError(toLog any) error {
	if err, ok := toLog.(error); ok {
		return err
	}
	return nil
}

// rootError unwraps to the innermost error so the reported class names the
// original failure, not a wrapper.
func rootError(err error) error {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err
		}
		err = inner
	}
}

// sdkFramePrefix identifies this package's own functions in a captured
// stack. The report path runs through a variable number of them (shorthand
// methods, the global helpers), so frames are filtered by name rather than
// skipped by count.
const sdkFramePrefix = "github.com/cresjie/rollbar."

// stackFrames captures the caller stack at report time. Leading frames
// belonging to this package are dropped so the trace starts at the code
// that reported.
func stackFrames() []map[string]any {
	pc := make([]uintptr, 32)
	n := runtime.Callers(2, pc)
	if n == 0 {
		return []map[string]any{}
	}

	frames := runtime.CallersFrames(pc[:n])
	out := make([]map[string]any, 0, n)
	skipping := true
	for {
		frame, more := frames.Next()
		if skipping && strings.HasPrefix(frame.Function, sdkFramePrefix) &&
			!strings.HasSuffix(frame.File, "_test.go") {
			if !more {
				break
			}
			continue
		}
		skipping = false
		out = append(out, map[string]any{
			"filename": frame.File,
			"lineno":   frame.Line,
			"method":   frame.Function,
		})
		if !more {
			break
		}
	}
	return out
}
