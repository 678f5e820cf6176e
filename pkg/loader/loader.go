// Package loader owns the review collection shown by the table and keeps it
// in step with the current privacy mode.
package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

// Lister fetches the reviews visible under a privacy mode
type Lister interface {
	List(ctx context.Context, private bool, token string) ([]model.Review, error)
}

// Request is a snapshot of what a fetch was started for. Only the latest
// generation may replace the collection.
type Request struct {
	Generation uint64
	Private    bool
	Token      string
}

// Loader holds the latest fetched reviews for (privacy, token)
type Loader struct {
	mu      sync.Mutex
	lister  Lister
	private bool
	token   string
	reviews []model.Review
	gen     uint64
	loaded  bool
	lastErr error
}

// New creates a loader. Nothing is fetched until GetData or Begin is called.
func New(lister Lister, private bool, token string) *Loader {
	return &Loader{
		lister:  lister,
		private: private,
		token:   token,
		reviews: []model.Review{},
	}
}

// Reviews returns a copy of the latest collection, empty before the first successful fetch
func (l *Loader) Reviews() []model.Review {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Review, len(l.reviews))
	copy(out, l.reviews)
	return out
}

// Privacy returns the mode the next fetch will use
func (l *Loader) Privacy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.private
}

// SetPrivacy switches visibility. When the mode changes the held collection
// is dropped, in-flight fetches are invalidated, and true is returned so the
// caller issues exactly one new fetch.
func (l *Loader) SetPrivacy(private bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if private == l.private {
		return false
	}
	l.private = private
	l.reviews = []model.Review{}
	l.loaded = false
	l.lastErr = nil
	l.gen++
	return true
}

// SetToken replaces the access token used by later fetches
func (l *Loader) SetToken(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.token = token
}

// Token returns the current access token
func (l *Loader) Token() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token
}

// Begin starts a new fetch generation, superseding any fetch in flight
func (l *Loader) Begin() Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return Request{Generation: l.gen, Private: l.private, Token: l.token}
}

// Fetch performs the remote call for req. It does not touch loader state and
// is safe to run off the UI goroutine.
func (l *Loader) Fetch(ctx context.Context, req Request) ([]model.Review, error) {
	reviews, err := l.lister.List(ctx, req.Private, req.Token)
	if err != nil {
		mode := "public"
		if req.Private {
			mode = "private"
		}
		return nil, fmt.Errorf("fetching %s reviews: %w", mode, err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// Apply stores the outcome of req if it is still the latest generation and
// reports whether it was applied. A failed fetch keeps the previous collection.
func (l *Loader) Apply(req Request, reviews []model.Review, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if req.Generation != l.gen {
		return false
	}
	if err != nil {
		l.lastErr = err
		return true
	}
	l.reviews = reviews
	l.loaded = true
	l.lastErr = nil
	return true
}

// GetData fetches the current review set and replaces the held collection
func (l *Loader) GetData(ctx context.Context) error {
	req := l.Begin()
	reviews, err := l.Fetch(ctx, req)
	l.Apply(req, reviews, err)
	return err
}

// Loaded reports whether a fetch has succeeded for the current mode
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Err returns the error of the latest applied fetch, if it failed
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
