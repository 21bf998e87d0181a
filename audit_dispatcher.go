package bankauth

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// drainTimeout bounds how long Close waits on the worker. A sink stuck in a
// network call cannot wedge engine shutdown.
const drainTimeout = 5 * time.Second

// auditDispatcher hands events to a single background worker through a
// bounded buffer, so a slow sink costs at worst dropped events, never a
// blocked login.
type auditDispatcher struct {
	cfg    AuditConfig
	sink   AuditSink
	events chan AuditEvent
	quit   chan struct{}

	worker    sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		cfg:    cfg,
		sink:   sink,
		events: make(chan AuditEvent, cfg.BufferSize),
		quit:   make(chan struct{}),
	}

	d.worker.Add(1)
	go d.pump()

	return d
}

// pump delivers events until quit, then flushes whatever is still buffered.
func (d *auditDispatcher) pump() {
	defer d.worker.Done()

	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			d.flush()
			return
		}
	}
}

func (d *auditDispatcher) flush() {
	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

// Emit enqueues an event. With DropIfFull set, a full buffer increments the
// drop counter instead of blocking the caller.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.events <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case d.events <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close stops intake and waits, up to drainTimeout, for the worker to flush
// the buffer. Safe to call more than once.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.quit)

		flushed := make(chan struct{})
		go func() {
			d.worker.Wait()
			close(flushed)
		}()
		select {
		case <-flushed:
		case <-time.After(drainTimeout):
		}
	})
}

// Dropped reports how many events were discarded due to a full buffer.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
