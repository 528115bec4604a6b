package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/endorses/pcapview/internal/pkg/filtering"
)

// BatchResult contains the outcomes of exporting several kinds at once
type BatchResult struct {
	// Outcomes in the order the dispatchers were given
	Outcomes []Outcome
}

// Succeeded returns the kinds whose artifact was produced
func (r *BatchResult) Succeeded() []Kind {
	kinds := make([]Kind, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			kinds = append(kinds, o.Kind)
		}
	}
	return kinds
}

// Failed returns the outcomes that ended in an error
func (r *BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// HasErrors returns true if any export in the batch failed
func (r *BatchResult) HasErrors() bool {
	return len(r.Failed()) > 0
}

// Summary returns a summary of the batch operation
func (r *BatchResult) Summary() string {
	failed := len(r.Failed())
	if failed == 0 {
		return fmt.Sprintf("all %d exports succeeded", len(r.Outcomes))
	}
	return fmt.Sprintf("%d succeeded, %d failed", len(r.Outcomes)-failed, failed)
}

// DispatchAll runs every dispatcher concurrently with the same criteria
// snapshot and waits for all of them. Each dispatcher keeps its own control
// state; a busy control yields an ErrBusy outcome.
func DispatchAll(ctx context.Context, c filtering.Criteria, dispatchers ...*Dispatcher) *BatchResult {
	result := &BatchResult{Outcomes: make([]Outcome, len(dispatchers))}

	var wg sync.WaitGroup
	for i, d := range dispatchers {
		wg.Add(1)
		go func(i int, d *Dispatcher) {
			defer wg.Done()
			result.Outcomes[i] = d.Dispatch(ctx, c)
		}(i, d)
	}
	wg.Wait()

	return result
}
