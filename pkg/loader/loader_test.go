package loader_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dicklesworthstone/review_viewer/pkg/loader"
	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

type listCall struct {
	private bool
	token   string
}

type fakeLister struct {
	calls   []listCall
	public  []model.Review
	private []model.Review
	err     error
}

func (f *fakeLister) List(_ context.Context, private bool, token string) ([]model.Review, error) {
	f.calls = append(f.calls, listCall{private: private, token: token})
	if f.err != nil {
		return nil, f.err
	}
	if private {
		return f.private, nil
	}
	return f.public, nil
}

func newFake() *fakeLister {
	return &fakeLister{
		public:  []model.Review{{ID: "pub-1"}, {ID: "pub-2"}},
		private: []model.Review{{ID: "priv-1"}},
	}
}

func TestLoader_EmptyBeforeFirstFetch(t *testing.T) {
	l := loader.New(newFake(), false, "tok")
	got := l.Reviews()
	if got == nil || len(got) != 0 {
		t.Fatalf("Expected empty non-nil collection, got %#v", got)
	}
	if l.Loaded() {
		t.Error("Expected Loaded() false before fetch")
	}
}

func TestLoader_GetData(t *testing.T) {
	f := newFake()
	l := loader.New(f, false, "tok")

	if err := l.GetData(context.Background()); err != nil {
		t.Fatalf("GetData error: %v", err)
	}
	if len(l.Reviews()) != 2 {
		t.Errorf("Expected 2 reviews, got %d", len(l.Reviews()))
	}
	if len(f.calls) != 1 || f.calls[0].private || f.calls[0].token != "tok" {
		t.Errorf("Unexpected calls: %+v", f.calls)
	}
}

func TestLoader_PrivacyChangeFetchesOnceAndDiscards(t *testing.T) {
	f := newFake()
	l := loader.New(f, false, "tok")
	l.GetData(context.Background())

	if !l.SetPrivacy(true) {
		t.Fatal("Expected SetPrivacy to require a refetch")
	}
	if len(l.Reviews()) != 0 {
		t.Fatalf("Expected previous collection discarded, got %d", len(l.Reviews()))
	}
	if err := l.GetData(context.Background()); err != nil {
		t.Fatalf("GetData error: %v", err)
	}

	if len(f.calls) != 2 {
		t.Fatalf("Expected exactly 2 fetches, got %d", len(f.calls))
	}
	if !f.calls[1].private {
		t.Error("Expected second fetch to be private")
	}
	got := l.Reviews()
	if len(got) != 1 || got[0].ID != "priv-1" {
		t.Errorf("Expected private collection, got %+v", got)
	}
}

func TestLoader_SetPrivacySameModeIsNoop(t *testing.T) {
	l := loader.New(newFake(), true, "")
	l.GetData(context.Background())
	if l.SetPrivacy(true) {
		t.Error("Expected no refetch for unchanged mode")
	}
	if len(l.Reviews()) != 1 {
		t.Error("Expected collection kept")
	}
}

func TestLoader_StaleResponseIgnored(t *testing.T) {
	f := newFake()
	l := loader.New(f, false, "")

	stale := l.Begin()
	staleReviews, _ := l.Fetch(context.Background(), stale)

	l.SetPrivacy(true)
	fresh := l.Begin()
	freshReviews, _ := l.Fetch(context.Background(), fresh)

	if !l.Apply(fresh, freshReviews, nil) {
		t.Fatal("Expected fresh response to apply")
	}
	if l.Apply(stale, staleReviews, nil) {
		t.Fatal("Expected stale response to be dropped")
	}

	got := l.Reviews()
	if len(got) != 1 || got[0].ID != "priv-1" {
		t.Errorf("Expected private collection to survive, got %+v", got)
	}
}

func TestLoader_FailureKeepsPreviousData(t *testing.T) {
	f := newFake()
	l := loader.New(f, false, "")
	l.GetData(context.Background())

	f.err = errors.New("boom")
	err := l.GetData(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if !errors.Is(err, f.err) {
		t.Errorf("Expected wrapped error, got %v", err)
	}
	if l.Err() == nil {
		t.Error("Expected Err() to report failure")
	}
	if len(l.Reviews()) != 2 {
		t.Errorf("Expected previous reviews kept, got %d", len(l.Reviews()))
	}

	f.err = nil
	l.GetData(context.Background())
	if l.Err() != nil {
		t.Errorf("Expected error cleared, got %v", l.Err())
	}
}

func TestLoader_SetTokenUsedByNextFetch(t *testing.T) {
	f := newFake()
	l := loader.New(f, false, "old")
	l.SetToken("new")
	l.GetData(context.Background())
	if f.calls[0].token != "new" || l.Token() != "new" {
		t.Errorf("Expected new token, got %+v", f.calls)
	}
}

func TestLoader_EmptyCollection(t *testing.T) {
	f := &fakeLister{}
	l := loader.New(f, false, "")
	if err := l.GetData(context.Background()); err != nil {
		t.Fatalf("GetData error: %v", err)
	}
	if got := l.Reviews(); got == nil || len(got) != 0 {
		t.Errorf("Expected empty collection, got %#v", got)
	}
	if !l.Loaded() {
		t.Error("Expected Loaded() after empty fetch")
	}
}
