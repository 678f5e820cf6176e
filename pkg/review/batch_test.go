package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingDeleter struct {
	mu      sync.Mutex
	calls   []string
	fail    map[string]error
	delay   time.Duration
	private []bool
}

func (d *recordingDeleter) Delete(_ context.Context, id string, private bool, token string) error {
	d.mu.Lock()
	d.calls = append(d.calls, id)
	d.private = append(d.private, private)
	d.mu.Unlock()
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	return d.fail[id]
}

func TestDeleteAll_OnePerIDInOrder(t *testing.T) {
	d := &recordingDeleter{}
	res := DeleteAll(context.Background(), d, []string{"A", "B", "C"}, true, "tok", 1)

	if len(d.calls) != 3 {
		t.Fatalf("Expected 3 delete calls, got %d", len(d.calls))
	}
	for i, want := range []string{"A", "B", "C"} {
		if d.calls[i] != want {
			t.Errorf("call %d = %s, want %s", i, d.calls[i], want)
		}
		if !d.private[i] {
			t.Errorf("call %d expected private mode", i)
		}
	}
	if len(res.Deleted) != 3 || res.Err() != nil {
		t.Errorf("Unexpected result: %+v", res)
	}
}

func TestDeleteAll_DefaultConcurrencyKeepsOrder(t *testing.T) {
	for run := 0; run < 200; run++ {
		d := &recordingDeleter{}
		DeleteAll(context.Background(), d, []string{"A", "B", "C"}, false, "", DefaultDeleteConcurrency)

		if len(d.calls) != 3 || d.calls[0] != "A" || d.calls[1] != "B" || d.calls[2] != "C" {
			t.Fatalf("run %d: expected A,B,C, got %v", run, d.calls)
		}
	}
}

func TestDeleteAll_ZeroLimitUsesDefault(t *testing.T) {
	d := &recordingDeleter{}
	DeleteAll(context.Background(), d, []string{"A", "B", "C"}, false, "", 0)
	if len(d.calls) != 3 || d.calls[0] != "A" || d.calls[1] != "B" || d.calls[2] != "C" {
		t.Errorf("Expected A,B,C, got %v", d.calls)
	}
}

func TestDeleteAll_WaitsForAllToSettle(t *testing.T) {
	d := &recordingDeleter{delay: 20 * time.Millisecond}
	start := time.Now()
	res := DeleteAll(context.Background(), d, []string{"A", "B", "C", "D"}, false, "", 4)

	if len(res.Deleted) != 4 {
		t.Fatalf("Expected all deleted before return, got %d", len(res.Deleted))
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Returned before deletes settled")
	}
}

func TestDeleteAll_FailureDoesNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	d := &recordingDeleter{fail: map[string]error{"B": boom}}
	res := DeleteAll(context.Background(), d, []string{"A", "B", "C"}, false, "", 1)

	if len(d.calls) != 3 {
		t.Fatalf("Expected 3 calls, got %d", len(d.calls))
	}
	if len(res.Deleted) != 2 {
		t.Errorf("Expected 2 deleted, got %v", res.Deleted)
	}
	if ids := res.FailedIDs(); len(ids) != 1 || ids[0] != "B" {
		t.Errorf("Expected B failed, got %v", ids)
	}
	if !errors.Is(res.Err(), boom) {
		t.Errorf("Expected joined error to wrap boom, got %v", res.Err())
	}
}

func TestDeleteAll_DedupesAndSkipsEmpty(t *testing.T) {
	d := &recordingDeleter{}
	DeleteAll(context.Background(), d, []string{"A", "", "A", "B"}, false, "", 1)
	if len(d.calls) != 2 {
		t.Errorf("Expected 2 calls, got %v", d.calls)
	}
}

func TestDeleteAll_Empty(t *testing.T) {
	d := &recordingDeleter{}
	res := DeleteAll(context.Background(), d, nil, false, "", 0)
	if len(d.calls) != 0 || len(res.Deleted) != 0 || res.Err() != nil {
		t.Errorf("Expected no-op, got %+v", res)
	}
}
