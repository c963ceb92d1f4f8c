package sqlcommon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/canopyhq/canopy/pkg/storage"
)

// ReadTx see [storage.NodeBackend].ReadTx.
func (d *DBInfo) ReadTx(ctx context.Context, fn func(storage.NodeReader) error) error {
	ctx, span := startTrace(ctx, "ReadTx")
	defer span.End()

	return d.retry(ctx, "read", func() error {
		return d.runTx(ctx, d.readTxOptions, func(tx *sql.Tx) error {
			return fn(d.nodeStore(tx))
		})
	})
}

// WriteTx see [storage.NodeBackend].WriteTx. A unit aborted by the engine because of a
// concurrent conflicting transaction is re-run from the start, so every check fn performs
// sees the state committed by the transaction that won.
func (d *DBInfo) WriteTx(ctx context.Context, fn func(storage.NodeTx) error) error {
	ctx, span := startTrace(ctx, "WriteTx")
	defer span.End()

	return d.retry(ctx, "write", func() error {
		return d.runTx(ctx, d.writeTxOptions, func(tx *sql.Tx) error {
			return fn(d.nodeStore(tx))
		})
	})
}

// runTx begins a transaction, hands it to fn and commits it if fn succeeds. The
// transaction is rolled back on every other path, including a panic in fn.
func (d *DBInfo) runTx(ctx context.Context, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return d.HandleSQLError(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return d.HandleSQLError(err)
	}

	return nil
}

func (d *DBInfo) retry(ctx context.Context, kind string, attempt func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 5 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = d.txRetryMaxElapsedTime

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(d.maxTxRetries)), ctx)

	return backoff.RetryNotify(func() error {
		err := attempt()
		switch {
		case err == nil:
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return backoff.Permanent(fmt.Errorf("%w: %w", storage.ErrCancelled, err))
		case errors.Is(err, storage.ErrTransactionConflict):
			return err
		default:
			return backoff.Permanent(err)
		}
	}, b, func(err error, wait time.Duration) {
		d.logger.DebugWithContext(ctx, "retrying conflicting transaction",
			zap.String("kind", kind),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	})
}
