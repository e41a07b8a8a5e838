// ABOUTME: Batch evaluator with per-VM isolation and a bounded worker pool
// ABOUTME: One VM's failure never blocks or corrupts the rest of the batch

package analyzer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/VirtualScripter/VMCO/models"
)

// Result holds the outcome for one VM: either a recommendation or the error
// that aborted its evaluation.
type Result struct {
	VM             string
	Recommendation *models.Recommendation
	Err            error
}

// ProgressFunc is invoked once per completed VM, in completion order.
type ProgressFunc func(completed, total int, vm string)

// BatchOptions tunes a batch run.
type BatchOptions struct {
	// Workers bounds concurrent evaluations. Values below 1 mean serial.
	Workers int

	// Progress, if non-nil, is called after each VM finishes.
	Progress ProgressFunc
}

// EvaluateBatch evaluates every VM in the inventory independently. Results
// keep the inventory's VM order regardless of completion order. Per-VM
// errors land in their Result; only context cancellation fails the batch.
func EvaluateBatch(ctx context.Context, inv *models.Inventory, opts BatchOptions) ([]Result, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(inv.VMs))

	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range inv.VMs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			vm := &inv.VMs[i]
			rec, err := Evaluate(vm, inv)
			results[i] = Result{VM: vm.Name, Recommendation: rec, Err: err}

			if opts.Progress != nil {
				mu.Lock()
				completed++
				done := completed
				mu.Unlock()
				opts.Progress(done, len(inv.VMs), vm.Name)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
