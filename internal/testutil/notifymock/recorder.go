package notifymock

import (
	"context"
	"sync"

	"separation-engine/internal/domain/notification"
)

// Recorder captures notifications synchronously. It satisfies both
// notification.Dispatcher and notification.Sink.
type Recorder struct {
	// Err is returned by Deliver.
	Err error

	mu   sync.Mutex
	sent []notification.Notification
}

var (
	_ notification.Dispatcher = (*Recorder)(nil)
	_ notification.Sink       = (*Recorder)(nil)
)

func (r *Recorder) Notify(_ context.Context, n notification.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) Deliver(ctx context.Context, n notification.Notification) error {
	r.Notify(ctx, n)
	return r.Err
}

func (r *Recorder) Sent() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Notification(nil), r.sent...)
}

// Kinds lists the kinds sent, in order.
func (r *Recorder) Kinds() []notification.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Kind, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Kind)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
