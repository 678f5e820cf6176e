package review

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultDeleteConcurrency bounds parallel delete requests. At 1 the deletes
// reach the service strictly in selection order; higher limits start them in
// order but let them race.
const DefaultDeleteConcurrency = 1

// Deleter removes one review on the remote service
type Deleter interface {
	Delete(ctx context.Context, id string, private bool, token string) error
}

// DeleteResult contains the outcome of a batch delete
type DeleteResult struct {
	Deleted []string
	Failed  map[string]error
	order   []string
}

// FailedIDs returns the ids that could not be deleted, in request order
func (r DeleteResult) FailedIDs() []string {
	var ids []string
	for _, id := range r.order {
		if _, ok := r.Failed[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Err joins every per-id failure, or returns nil
func (r DeleteResult) Err() error {
	var errs []error
	for _, id := range r.FailedIDs() {
		errs = append(errs, fmt.Errorf("%s: %w", id, r.Failed[id]))
	}
	return errors.Join(errs...)
}

// DeleteAll issues one delete per id, starting them in the given order with
// at most limit in flight, and returns only after every request has settled.
// A failure does not cancel the other requests. Call order is only guaranteed
// when limit is 1.
func DeleteAll(ctx context.Context, d Deleter, ids []string, private bool, token string, limit int) DeleteResult {
	ids = dedupe(ids)
	errs := make([]error, len(ids))

	var g errgroup.Group
	if limit <= 0 {
		limit = DefaultDeleteConcurrency
	}
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			errs[i] = d.Delete(ctx, id, private, token)
			return nil
		})
	}
	_ = g.Wait()

	result := DeleteResult{
		Deleted: make([]string, 0, len(ids)),
		Failed:  make(map[string]error),
		order:   ids,
	}
	for i, id := range ids {
		if errs[i] != nil {
			result.Failed[id] = errs[i]
		} else {
			result.Deleted = append(result.Deleted, id)
		}
	}
	return result
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
