package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/bridge"
	"github.com/hortsatta/dot-games-sub000/internal/cache"
	"github.com/hortsatta/dot-games-sub000/internal/orders"
)

// Reconciler retries paid orders whose first write failed.
type Reconciler struct {
	orders    orders.OrderRepository
	pending   cache.CompletionQueue
	carts     bridge.CartStore
	snapshots cache.SnapshotStore
	tick      time.Duration
}

func NewReconciler(orderRepo orders.OrderRepository, pending cache.CompletionQueue, carts *bridge.Bridge, snapshots cache.SnapshotStore, tick time.Duration) *Reconciler {
	if tick <= 0 {
		tick = 5 * time.Second
	}
	return &Reconciler{
		orders:    orderRepo,
		pending:   pending,
		carts:     carts.Remote(),
		snapshots: snapshots,
		tick:      tick,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.ReconcileOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ReconcileOnce works through the orders queued before this call and returns how many were recorded.
// Orders that still fail go back on the queue for the next tick.
func (r *Reconciler) ReconcileOnce(ctx context.Context) int {
	n, err := r.pending.Len(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read pending completions", "error", err)
		return 0
	}

	recorded := 0
	for i := int64(0); i < n; i++ {
		order, err := r.pending.Pop(ctx)
		if errors.Is(err, cache.ErrQueueEmpty) {
			break
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to pop pending completion", "error", err)
			break
		}

		err = r.orders.CreateOrder(ctx, order)
		if err != nil && !errors.Is(err, orders.ErrDuplicateOrder) {
			slog.WarnContext(ctx, "pending order still not recorded",
				"user_id", order.UserID, "payment_ref", order.PaymentIntentRef, "error", err)
			if errPush := r.pending.Push(ctx, order); errPush != nil {
				slog.ErrorContext(ctx, "failed to requeue paid order",
					"payment_ref", order.PaymentIntentRef, "order", order, "error", errPush)
			}
			continue
		}

		recorded++
		slog.InfoContext(ctx, "pending order recovered", "user_id", order.UserID, "payment_ref", order.PaymentIntentRef)
		if _, err := clearPaidCart(ctx, r.carts, order.UserID, order.PaymentIntentRef); err != nil {
			slog.WarnContext(ctx, "failed to clear cart for recovered order", "user_id", order.UserID, "error", err)
		}
		dropPaidSnapshot(ctx, r.snapshots, order.UserID, order.PaymentIntentRef)
	}
	return recorded
}
