package storagewrappers

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canopyhq/canopy/pkg/storage"
)

var _ storage.Datastore = (*boundedConcurrencyDatastore)(nil)

var (
	timeWaitingHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "canopy",
		Name:      "time_waiting_for_transaction_ms",
		Help:      "Time (in ms) spent waiting for a free slot before starting a datastore transaction",
		Buckets:   []float64{1, 10, 25, 50, 100, 1000, 5000},
	}, []string{"kind"})
)

type boundedConcurrencyDatastore struct {
	storage.Datastore
	readLimiter  chan struct{}
	writeLimiter chan struct{}
}

// NewBoundedConcurrencyDatastore returns a wrapper over a datastore that makes sure that there are,
// at most, maxReads concurrent ReadTx units and maxWrites concurrent WriteTx units.
// Consumers can then rest assured that one burst of requests will not hoard all the database
// connections available, and engines that serialise writers anyway do not spin on lock retries.
// A limit of zero leaves the corresponding transactions unbounded.
func NewBoundedConcurrencyDatastore(wrapped storage.Datastore, maxReads, maxWrites uint32) storage.Datastore {
	b := &boundedConcurrencyDatastore{Datastore: wrapped}
	if maxReads > 0 {
		b.readLimiter = make(chan struct{}, maxReads)
	}
	if maxWrites > 0 {
		b.writeLimiter = make(chan struct{}, maxWrites)
	}
	return b
}

func acquire(ctx context.Context, limiter chan struct{}, kind string) (func(), error) {
	if limiter == nil {
		return func() {}, nil
	}

	start := time.Now()

	select {
	case limiter <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	timeWaiting := time.Since(start).Milliseconds()
	timeWaitingHistogram.WithLabelValues(kind).Observe(float64(timeWaiting))
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int64("time_waiting", timeWaiting))

	return func() {
		<-limiter
	}, nil
}

// ReadTx see [storage.NodeBackend].ReadTx.
func (b *boundedConcurrencyDatastore) ReadTx(ctx context.Context, fn func(storage.NodeReader) error) error {
	release, err := acquire(ctx, b.readLimiter, "read")
	if err != nil {
		return err
	}
	defer release()

	return b.Datastore.ReadTx(ctx, fn)
}

// WriteTx see [storage.NodeBackend].WriteTx.
func (b *boundedConcurrencyDatastore) WriteTx(ctx context.Context, fn func(storage.NodeTx) error) error {
	release, err := acquire(ctx, b.writeLimiter, "write")
	if err != nil {
		return err
	}
	defer release()

	return b.Datastore.WriteTx(ctx, fn)
}
