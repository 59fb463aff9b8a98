package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reconciler pushes ledger counts to the catalog.
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// StartReconcileScheduler runs r on the given cron spec (standard five-field
// syntax or descriptors such as "@every 5m"). Overlapping runs are skipped.
// Stop the returned cron to shut the scheduler down.
func StartReconcileScheduler(spec string, r Reconciler, timeout time.Duration, log *zap.Logger) (*cron.Cron, error) {
	log = log.Named("reconcile-scheduler")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := r.Reconcile(ctx); err != nil {
			log.Error("reconcile run failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule reconcile %q: %w", spec, err)
	}

	c.Start()
	log.Info("reconcile scheduler started", zap.String("schedule", spec))
	return c, nil
}
