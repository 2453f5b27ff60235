package rollbar

import (
	"context"
	"sync"
)

// destination owns the only cross-call mutable state of a client: the FIFO
// queue of encoded payloads and the lifetime report counter. One mutex
// covers the whole check-ceiling, increment, enqueue-or-flush sequence so
// concurrent report calls can neither double-count nor drop items.
type destination struct {
	sender    Sender
	batched   bool
	batchSize int
	maxItems  int

	mu          sync.Mutex
	reportCount int
	queue       []EncodedPayload
}

func newDestination(sender Sender, cfg Config) *destination {
	return &destination{
		sender:    sender,
		batched:   cfg.Batched,
		batchSize: cfg.BatchSize,
		maxItems:  cfg.MaxItems,
	}
}

// send dispatches one encoded payload, applying the per-process item
// ceiling first. With batching off the payload goes out synchronously; with
// it on, a full queue is flushed before the payload is enqueued and a
// zero-status "Pending" response stands in for the deferred delivery.
func (d *destination) send(ctx context.Context, p EncodedPayload, accessToken string) Response {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.maxItems > 0 && d.reportCount >= d.maxItems {
		return responseMaxItems()
	}
	d.reportCount++

	if !d.batched {
		return d.sender.Send(ctx, p, accessToken)
	}

	resp := responsePending()
	if len(d.queue) >= d.batchSize {
		resp = d.flushLocked(ctx, accessToken)
	}
	d.queue = append(d.queue, p)
	return resp
}

// flush sends everything queued as one batch, in enqueue order.
func (d *destination) flush(ctx context.Context, accessToken string) Response {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushLocked(ctx, accessToken)
}

func (d *destination) flushLocked(ctx context.Context, accessToken string) Response {
	if len(d.queue) == 0 {
		return responseQueueEmpty()
	}

	// swap the queue out whole so pushes racing with the send cannot
	// interleave with what is being sent
	batch := d.queue
	d.queue = nil
	return d.sender.SendBatch(ctx, batch, accessToken)
}

// sent returns the lifetime report count.
func (d *destination) sent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reportCount
}

// queued returns the current queue length.
func (d *destination) queued() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
