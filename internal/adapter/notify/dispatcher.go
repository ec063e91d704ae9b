package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"separation-engine/internal/domain/actor"
	"separation-engine/internal/domain/notification"
	"separation-engine/pkg/id"
)

// Audience expands role-addressed notifications into account ids.
type Audience interface {
	HRRecipients(ctx context.Context) ([]string, error)
}

type Options struct {
	Buffer   int           // queue size; Notify drops when full. Default 256.
	Attempts int           // deliveries tried per sink. Default 3.
	Backoff  time.Duration // first retry delay, doubled per attempt. Default 200ms.
	Timeout  time.Duration // per-delivery deadline. Default 5s.
}

func (o *Options) defaults() {
	if o.Buffer <= 0 {
		o.Buffer = 256
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 200 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
}

type Stats struct {
	Delivered int64
	Failed    int64
	Dropped   int64
}

// Dispatcher is a fire-and-forget notification.Dispatcher backed by a
// buffered queue and a single delivery goroutine.
type Dispatcher struct {
	opts     Options
	audience Audience
	sinks    []notification.Sink
	logger   *zap.Logger

	mu      sync.Mutex
	queue   chan notification.Notification
	running bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}

	delivered, failed, dropped atomic.Int64
}

var _ notification.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(audience Audience, logger *zap.Logger, opts Options, sinks ...notification.Sink) *Dispatcher {
	opts.defaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		opts:     opts,
		audience: audience,
		sinks:    sinks,
		logger:   logger,
		queue:    make(chan notification.Notification, opts.Buffer),
		done:     make(chan struct{}),
	}
}

func (d *Dispatcher) Name() string { return "notification-dispatcher" }

// Start launches the delivery loop. Notifications queued before Start are kept.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("dispatcher already running")
	}
	if d.closed {
		return errors.New("dispatcher stopped")
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.running = true
	go d.loop(ctx)

	d.logger.Info("Notification dispatcher started",
		zap.Int("buffer", d.opts.Buffer),
		zap.Int("sinks", len(d.sinks)))
	return nil
}

// Stop closes the queue and waits until queued notifications are delivered.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	running := d.running
	d.mu.Unlock()

	if running {
		<-d.done
		d.cancel()
	}
	s := d.Stats()
	d.logger.Info("Notification dispatcher stopped",
		zap.Int64("delivered", s.Delivered),
		zap.Int64("failed", s.Failed),
		zap.Int64("dropped", s.Dropped))
}

// Notify enqueues n without blocking. A full queue or a stopped dispatcher drops it.
func (d *Dispatcher) Notify(_ context.Context, n notification.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.drop(n, "dispatcher stopped")
		return
	}
	select {
	case d.queue <- n:
	default:
		d.drop(n, "queue full")
	}
}

func (d *Dispatcher) Stats() Stats {
	return Stats{Delivered: d.delivered.Load(), Failed: d.failed.Load(), Dropped: d.dropped.Load()}
}

func (d *Dispatcher) drop(n notification.Notification, reason string) {
	d.dropped.Add(1)
	d.logger.Warn("notification dropped",
		zap.String("reason", reason),
		zap.String("kind", string(n.Kind)),
		zap.String("employee_id", n.EmployeeID))
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer close(d.done)
	for n := range d.queue {
		for _, addressed := range d.expand(ctx, n) {
			d.deliver(ctx, addressed)
		}
	}
}

// expand resolves the recipients of n and gives each copy its own id.
func (d *Dispatcher) expand(ctx context.Context, n notification.Notification) []notification.Notification {
	var ids []string
	switch {
	case n.RecipientID != "":
		ids = []string{n.RecipientID}
	case n.RecipientRole == actor.RoleHR && d.audience != nil:
		var err error
		if ids, err = d.audience.HRRecipients(ctx); err != nil {
			d.failed.Add(1)
			d.logger.Error("failed to resolve notification audience",
				zap.String("kind", string(n.Kind)),
				zap.String("employee_id", n.EmployeeID),
				zap.Error(err))
			return nil
		}
	default:
		d.drop(n, "no recipient")
		return nil
	}

	out := make([]notification.Notification, 0, len(ids))
	for _, rid := range ids {
		cp := n
		cp.RecipientID = rid
		cp.RecipientRole = ""
		cp.NotificationID = id.NewID32()
		out = append(out, cp)
	}
	return out
}

func (d *Dispatcher) deliver(ctx context.Context, n notification.Notification) {
	for _, s := range d.sinks {
		var err error
		backoff := d.opts.Backoff
		for attempt := 1; attempt <= d.opts.Attempts; attempt++ {
			dctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
			err = s.Deliver(dctx, n)
			cancel()
			if err == nil || attempt == d.opts.Attempts {
				break
			}
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
			}
			backoff *= 2
		}
		if err != nil {
			d.failed.Add(1)
			d.logger.Warn("notification delivery failed",
				zap.String("kind", string(n.Kind)),
				zap.String("recipient_id", n.RecipientID),
				zap.String("employee_id", n.EmployeeID),
				zap.Int("attempts", d.opts.Attempts),
				zap.Error(err))
			continue
		}
		d.delivered.Add(1)
	}
}
