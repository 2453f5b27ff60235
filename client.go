package rollbar

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cresjie/rollbar/internal/diag"
	"github.com/cresjie/rollbar/internal/serialize"
)

// Client is the reporting pipeline. One report call flows through validate,
// ignore checks, assembly, serialization, scrubbing, encoding, truncation
// and dispatch; every non-exceptional outcome is returned as a Response.
// All methods are safe for concurrent use.
type Client struct {
	cfg        Config
	log        *zap.Logger
	builder    DataBuilder
	serializer *serialize.Serializer
	scrubber   Scrubber
	truncator  Truncator
	encoder    Encoder
	dest       *destination
}

// New creates a Client from cfg. Configuration errors surface immediately;
// nothing is sent until the first report call.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	builder := cfg.DataBuilder
	if builder == nil {
		builder = newDataBuilder(cfg)
	}

	sender := cfg.Sender
	if sender == nil {
		sender = newHTTPSender(cfg.Endpoint, cfg.Timeout, cfg.Retries)
	}

	return &Client{
		cfg:        cfg,
		log:        diag.New(cfg.diagConfig()),
		builder:    builder,
		serializer: serialize.New(cfg.CustomKeys...),
		scrubber:   newFieldScrubber(cfg.ScrubFields),
		truncator:  newSizeTruncator(cfg.MaxPayloadSize, encoder),
		encoder:    encoder,
		dest:       newDestination(sender, cfg),
	}, nil
}

// Report sends one item through the pipeline. toLog is a string, a
// stringable value, an error, or an ErrorWrapper; extra is arbitrary
// context merged into the item body.
//
// The returned error is non-nil only for an invalid level, a failed
// transform hook, a failed encode, or — with RaiseOnError set — the
// uncaught wrapped error being re-surfaced after delivery. Every other
// outcome, including ignore, disable, capacity and collector failures, is
// data on the Response.
func (c *Client) Report(level Level, toLog any, extra map[string]any) (Response, error) {
	return c.ReportContext(context.Background(), level, toLog, extra)
}

// ReportContext is Report with a caller context. The context bounds the
// transport call, and a valid span context on it is attached to the item as
// trace correlation data.
func (c *Client) ReportContext(ctx context.Context, level Level, toLog any, extra map[string]any) (Response, error) {
	if !c.cfg.Enabled {
		c.log.Info("reporting disabled, item dropped", zap.String("severity", "notice"))
		return responseDisabled(), nil
	}

	lvl, err := ParseLevel(level.String())
	if err != nil {
		c.log.Error("invalid severity level", zap.Error(err))
		return Response{}, err
	}

	if c.cfg.CheckIgnore != nil && c.cfg.CheckIgnore(lvl, toLog) {
		c.log.Debug("item ignored before assembly", zap.String("level", lvl.String()))
		return responseIgnored(), nil
	}

	payload, err := c.buildPayload(ctx, lvl, toLog, extra)
	if err != nil {
		c.log.Error("payload assembly failed", zap.Error(err))
		return Response{}, err
	}

	uncaught := isUncaughtLogData(toLog)
	if c.cfg.CheckIgnorePayload != nil &&
		c.cfg.CheckIgnorePayload(payload, payload.AccessToken, toLog, uncaught) {
		c.log.Debug("item ignored after assembly", zap.String("level", lvl.String()))
		return responseIgnored(), nil
	}

	tree := c.serializer.Serialize(payload.Data)
	tree = c.scrubber.Scrub(tree)

	encoded, err := c.encoder.Encode(tree)
	if err != nil {
		c.log.Error("payload encoding failed", zap.Error(err))
		return Response{}, err
	}
	encoded = c.truncator.Truncate(encoded)

	resp := c.dest.send(ctx, encoded, payload.AccessToken)

	if c.cfg.ResponseHandler != nil {
		c.cfg.ResponseHandler(payload, resp)
	}
	c.logOutcome(resp)

	if uncaught && c.cfg.RaiseOnError {
		// delivery and logging are complete; now surface the original
		// error to the caller
		return resp, toLog.(*ErrorWrapper)
	}
	return resp, nil
}

// buildPayload assembles the normalized record and runs the transform hook.
// A transform error propagates unmodified.
func (c *Client) buildPayload(ctx context.Context, level Level, toLog any, extra map[string]any) (*Payload, error) {
	data := c.builder.BuildData(level, toLog, extra)
	if attrs := traceAttributes(ctx); attrs != nil {
		data["trace_context"] = attrs
	}

	payload := &Payload{AccessToken: c.cfg.AccessToken, Data: data}
	if c.cfg.Transform == nil {
		return payload, nil
	}

	transformed, err := c.cfg.Transform(payload, level, toLog, extra)
	if err != nil {
		return nil, err
	}
	if transformed == nil {
		return nil, errors.New("transform hook returned nil payload")
	}
	return transformed, nil
}

func (c *Client) logOutcome(resp Response) {
	switch {
	case resp.Info == infoPending || resp.Info == infoQueueEmpty:
		// deferred delivery and empty flushes are not failures
		c.log.Debug(resp.Info)
	case resp.Rejected():
		c.log.Error("item not delivered", zap.String("info", resp.Info))
	case resp.APIError():
		c.log.Error("collector rejected item",
			zap.Int("status", resp.Status), zap.String("message", resp.Info))
	default:
		c.log.Info("item delivered", zap.Int("status", resp.Status))
	}
}

// Flush sends everything queued as one batch. Flushing an empty queue is a
// no-op that returns a zero-status "Queue empty" response.
func (c *Client) Flush() Response {
	return c.FlushContext(context.Background())
}

// FlushContext is Flush with a caller context bounding the batch delivery.
func (c *Client) FlushContext(ctx context.Context) Response {
	resp := c.dest.flush(ctx, c.cfg.AccessToken)
	c.logOutcome(resp)
	return resp
}

// FlushAndWait flushes the queue and then blocks until the transport has
// delivered everything outstanding. Intended for graceful shutdown.
func (c *Client) FlushAndWait(ctx context.Context) (Response, error) {
	resp := c.FlushContext(ctx)
	return resp, c.dest.sender.Wait(ctx)
}

// Close flushes pending items, waits for delivery, and releases the
// diagnostic logger.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if _, err := c.FlushAndWait(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.log.Sync(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// --- Severity shorthands ---

// Debug reports toLog at debug level.
func (c *Client) Debug(toLog any, extra map[string]any) (Response, error) {
	return c.Report(LevelDebug, toLog, extra)
}

// Info reports toLog at info level.
func (c *Client) Info(toLog any, extra map[string]any) (Response, error) {
	return c.Report(LevelInfo, toLog, extra)
}

// Notice reports toLog at notice level.
func (c *Client) Notice(toLog any, extra map[string]any) (Response, error) {
	return c.Report(LevelNotice, toLog, extra)
}

// Warning reports toLog at warning level.
func (c *Client) Warning(toLog any, extra map[string]any) (Response, error) {
	return c.Report(LevelWarning, toLog, extra)
}

// Error reports toLog at error level.
func (c *Client) Error(toLog any, extra map[string]any) (Response, error) {
	return c.Report(LevelError, toLog, extra)
}

// Critical reports toLog at critical level.
func (c *Client) Critical(toLog any, extra map[string]any) (Response, error) {
	return c.Report(LevelCritical, toLog, extra)
}
