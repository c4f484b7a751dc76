// Package worker keeps a local replica of the remote sheet. It consumes
// transaction events and applies each change to the replica, and can rebuild
// the replica from scratch when drift is suspected.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/sheets"
	"financas/internal/store"
)

// TruncatableRowStore is a row store that can drop all rows at once; the
// sqlite replica implements it for full resyncs.
type TruncatableRowStore interface {
	sheets.RowStore
	Truncate(ctx context.Context) error
}

type MirrorWorker struct {
	primary      *store.Store
	replicaRows  TruncatableRowStore
	replicaStore *store.Store
}

func NewMirrorWorker(primary *store.Store, replica TruncatableRowStore) *MirrorWorker {
	return &MirrorWorker{
		primary:      primary,
		replicaRows:  replica,
		replicaStore: store.New(replica),
	}
}

// HandleEvent applies a single transaction event to the replica. Created and
// updated events re-read the record from the primary, so a record deleted in
// the meantime degrades to a delete here too.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Mirroring transaction event",
		"transaction_id", msg.ID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionDeleted:
		return w.replicaStore.Delete(ctx, msg.ID)

	case amqp.ActionCreated, amqp.ActionUpdated:
		t, err := w.primary.ReadOne(ctx, msg.ID)
		if errors.Is(err, core.ErrTransactionNotFound) {
			return w.replicaStore.Delete(ctx, msg.ID)
		}
		if err != nil {
			return fmt.Errorf("read primary: %w", err)
		}

		_, found, err := w.replicaRows.FindRowByValue(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("find in replica: %w", err)
		}
		if found {
			return w.replicaStore.Update(ctx, msg.ID, t)
		}
		if err := w.replicaStore.EnsureHeader(ctx); err != nil {
			return err
		}
		if err := w.replicaRows.AppendRow(ctx, store.EncodeRow(msg.ID, t)); err != nil {
			return fmt.Errorf("append to replica: %w", err)
		}
		return nil

	default:
		slog.WarnContext(ctx, "Ignoring unknown event action", "action", msg.Action)
		return nil
	}
}

// Resync rebuilds the replica from the primary: truncate, rewrite the header
// and copy every record.
func (w *MirrorWorker) Resync(ctx context.Context) error {
	all, err := w.primary.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("read primary: %w", err)
	}
	if err := w.replicaRows.Truncate(ctx); err != nil {
		return fmt.Errorf("truncate replica: %w", err)
	}
	if err := w.replicaRows.AppendRow(ctx, store.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range all {
		if err := w.replicaRows.AppendRow(ctx, store.EncodeRow(t.ID, t)); err != nil {
			return fmt.Errorf("append %s: %w", t.ID, err)
		}
	}
	slog.InfoContext(ctx, "Replica resynced", "records", len(all))
	return nil
}
