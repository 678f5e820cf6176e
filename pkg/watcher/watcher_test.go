package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	var calls int32
	for i := 0; i < 5; i++ {
		d.trigger(func() { atomic.AddInt32(&calls, 1) })
	}
	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 call, got %d", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	var calls int32
	d.trigger(func() { atomic.AddInt32(&calls, 1) })
	d.stop()
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("Expected no calls after stop, got %d", got)
	}
}

func TestReadToken_Trims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	os.WriteFile(path, []byte("  abc123\n"), 0600)
	tok, err := ReadToken(path)
	if err != nil {
		t.Fatalf("ReadToken error: %v", err)
	}
	if tok != "abc123" {
		t.Errorf("Expected abc123, got %q", tok)
	}
	if _, err := ReadToken(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestTokenWatcher_ReportsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("first"), 0600); err != nil {
		t.Fatal(err)
	}

	got := make(chan string, 4)
	w := NewTokenWatcher(path, "first", func(tok string) { got <- tok }, nil)
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("second\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case tok := <-got:
		if tok != "second" {
			t.Errorf("Expected second, got %q", tok)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for token change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned error: %v", err)
	}
}

func TestTokenWatcher_UnchangedContentIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	os.WriteFile(path, []byte("same"), 0600)

	calls := 0
	w := NewTokenWatcher(path, "same", func(string) { calls++ }, nil)
	w.reload()
	if calls != 0 {
		t.Errorf("Expected no callback for unchanged token, got %d", calls)
	}
	os.WriteFile(path, []byte("other"), 0600)
	w.reload()
	if calls != 1 {
		t.Errorf("Expected one callback, got %d", calls)
	}
}

func TestWatch_FollowsTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("first\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got := make(chan string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(tok string) { got <- tok }, nil) }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("second"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case tok := <-got:
		if tok != "second" {
			t.Errorf("Expected second, got %q", tok)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for token change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned error: %v", err)
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "absent"), nil, nil)
	if err == nil {
		t.Error("Expected error for a missing token file")
	}
}
