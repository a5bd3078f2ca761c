package live

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"checkinboard/internal/metrics"
	"checkinboard/internal/storage"
)

// invalidationChannel carries collection names between server instances.
const invalidationChannel = "board:changed"

// Broadcaster turns "collection changed" signals into snapshot pushes.
//
// On every local write the service calls Changed, which re-reads the full
// collection and publishes it to the hub. With Redis configured, the change
// is also published to peer instances so boards behind a load balancer stay
// live; without Redis the broadcaster is purely in-process.
type Broadcaster struct {
	store storage.Store
	hub   *Hub
	rdb   *redis.Client
	log   *slog.Logger
}

// NewBroadcaster wires a broadcaster. rdb may be nil for single-instance mode.
func NewBroadcaster(store storage.Store, hub *Hub, rdb *redis.Client, log *slog.Logger) *Broadcaster {
	return &Broadcaster{store: store, hub: hub, rdb: rdb, log: log}
}

// Changed re-reads the collection and pushes the snapshot to local
// subscribers, then notifies peer instances. Failures are logged and
// dropped: the next successful write pushes a corrected snapshot, so a
// missed push never wedges the board.
func (b *Broadcaster) Changed(ctx context.Context, c storage.Collection) {
	b.push(ctx, c)

	if b.rdb == nil {
		return
	}
	if err := b.rdb.Publish(ctx, invalidationChannel, string(c)).Err(); err != nil {
		b.log.Warn("failed to publish invalidation", "collection", c, "error", err)
	}
}

// Run consumes peer invalidations until ctx is cancelled. A no-op without
// Redis configured.
func (b *Broadcaster) Run(ctx context.Context) {
	if b.rdb == nil {
		return
	}

	sub := b.rdb.Subscribe(ctx, invalidationChannel)
	defer sub.Close()

	b.log.Info("listening for peer invalidations", "channel", invalidationChannel)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c := storage.Collection(msg.Payload)
			if !storage.Known(c) {
				b.log.Warn("ignoring invalidation for unknown collection", "collection", msg.Payload)
				continue
			}
			b.push(ctx, c)
		}
	}
}

func (b *Broadcaster) push(ctx context.Context, c storage.Collection) {
	docs, err := b.store.List(ctx, c)
	if err != nil {
		b.log.Error("failed to snapshot collection", "collection", c, "error", err)
		return
	}
	b.hub.Publish(Snapshot{Collection: c, Docs: docs})
	metrics.SnapshotsPushed.WithLabelValues(string(c)).Inc()
}
