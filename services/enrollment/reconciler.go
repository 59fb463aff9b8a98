package enrollment

import (
	"context"

	"go.uber.org/zap"
)

// ActiveCounter reports ACTIVE enrollments per course.
type ActiveCounter interface {
	ActiveCounts(ctx context.Context) (map[string]int, error)
}

// CountPusher overwrites a course's enrolled counter in the catalog.
type CountPusher interface {
	UpdateEnrolledCount(ctx context.Context, id string, count int) error
}

// Reconciler pushes the ledger's ACTIVE counts to the catalog. It is an
// opt-in repair job; Enroll and Drop never depend on it.
type Reconciler struct {
	counts  ActiveCounter
	catalog CountPusher
	log     *zap.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(counts ActiveCounter, catalog CountPusher, log *zap.Logger) *Reconciler {
	return &Reconciler{counts: counts, catalog: catalog, log: log.Named("reconciler")}
}

// Reconcile pushes every course's count and returns how many pushes
// succeeded. A failed push is logged and the remaining courses still run.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	counts, err := r.counts.ActiveCounts(ctx)
	if err != nil {
		return 0, err
	}

	pushed := 0
	for courseID, active := range counts {
		if err := r.catalog.UpdateEnrolledCount(ctx, courseID, active); err != nil {
			r.log.Warn("reconcile push failed", zap.String("courseId", courseID), zap.Int("active", active), zap.Error(err))
			continue
		}
		pushed++
	}
	r.log.Info("reconcile finished", zap.Int("courses", len(counts)), zap.Int("pushed", pushed))
	return pushed, nil
}
