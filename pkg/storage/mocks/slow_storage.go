package mocks

import (
	"context"
	"time"

	"github.com/canopyhq/canopy/pkg/storage"
)

// slowDataStorage is a proxy to the actual ds except that transactions are delayed by txDelay
// before they start. This allows simulating a saturated datastore.
type slowDataStorage struct {
	storage.Datastore
	txDelay time.Duration
}

// NewMockSlowDataStorage returns a wrapper of a datastore that adds artificial delays to
// read and write transactions.
func NewMockSlowDataStorage(ds storage.Datastore, txDelay time.Duration) storage.Datastore {
	return &slowDataStorage{
		Datastore: ds,
		txDelay:   txDelay,
	}
}

func (m *slowDataStorage) ReadTx(ctx context.Context, fn func(storage.NodeReader) error) error {
	time.Sleep(m.txDelay)
	return m.Datastore.ReadTx(ctx, fn)
}

func (m *slowDataStorage) WriteTx(ctx context.Context, fn func(storage.NodeTx) error) error {
	time.Sleep(m.txDelay)
	return m.Datastore.WriteTx(ctx, fn)
}
