package tenancy

import (
	"context"

	"github.com/dmitrymomot/saaskit/pkg/queue"
)

// CronNotifier is handed the full set of visible tenant identifiers after
// every successful reconcile. It lets an external periodic-task runner
// (so it can re-derive per-tenant schedules, e.g. signing-key rotation
// or trial-expiry sweeps) learn about tenants without importing this
// package's catalog or fleet types.
type CronNotifier interface {
	// SetTenantsInfo replaces whatever tenant set the notifier's target
	// last knew about with ids.
	SetTenantsInfo(ctx context.Context, ids []TenantIdentifier) error
}

// tenantsInfoPayload is the JSON payload enqueued by QueueCronNotifier.
type tenantsInfoPayload struct {
	Tenants []string `json:"tenants"`
}

// TenantsInfoTaskName is the queue.Task.TaskName a worker registers a
// handler under to receive QueueCronNotifier hand-offs.
const TenantsInfoTaskName = "tenancy.set_tenants_info"

// QueueCronNotifier adapts pkg/queue.Enqueuer to CronNotifier, so the
// reconciler's cron hand-off becomes an ordinary queued task instead of a
// direct call into a scheduler's process. A worker elsewhere registers a
// handler for TenantsInfoTaskName and reacts to the tenant list however
// the periodic-task system needs to (see pkg/queue.Worker).
type QueueCronNotifier struct {
	enqueuer *queue.Enqueuer
	queue    string
}

// QueueCronNotifierOption configures a QueueCronNotifier.
type QueueCronNotifierOption func(*QueueCronNotifier)

// WithQueueCronNotifierQueue overrides the destination queue name.
// Defaults to queue.DefaultQueueName.
func WithQueueCronNotifierQueue(name string) QueueCronNotifierOption {
	return func(n *QueueCronNotifier) { n.queue = name }
}

// NewQueueCronNotifier builds a CronNotifier backed by an existing
// *queue.Enqueuer.
func NewQueueCronNotifier(enqueuer *queue.Enqueuer, opts ...QueueCronNotifierOption) *QueueCronNotifier {
	n := &QueueCronNotifier{enqueuer: enqueuer}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SetTenantsInfo enqueues a TenantsInfoTaskName task carrying ids.
func (n *QueueCronNotifier) SetTenantsInfo(ctx context.Context, ids []TenantIdentifier) error {
	payload := tenantsInfoPayload{Tenants: make([]string, len(ids))}
	for i, id := range ids {
		payload.Tenants[i] = id.String()
	}

	opts := []queue.EnqueueOption{queue.WithTaskName(TenantsInfoTaskName)}
	if n.queue != "" {
		opts = append(opts, queue.WithQueue(n.queue))
	}
	return n.enqueuer.Enqueue(ctx, payload, opts...)
}
