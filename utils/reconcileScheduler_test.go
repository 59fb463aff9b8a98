package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReconciler struct{ runs atomic.Int32 }

func (c *countingReconciler) Reconcile(context.Context) (int, error) {
	c.runs.Add(1)
	return 0, nil
}

func TestReconcileSchedulerRuns(t *testing.T) {
	r := &countingReconciler{}
	c, err := StartReconcileScheduler("@every 1s", r, time.Second, zap.NewNop())
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return r.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestReconcileSchedulerRejectsBadSpec(t *testing.T) {
	_, err := StartReconcileScheduler("every now and then", &countingReconciler{}, time.Second, zap.NewNop())
	assert.Error(t, err)
}
