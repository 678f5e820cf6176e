package review

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

// Journal records every mutation sent to the review service, grouped by
// session. All methods are safe on a nil *Journal, which records nothing.
type Journal struct {
	mu      sync.Mutex
	db      *DB
	session *model.Session
	logger  *zap.Logger
}

// OpenJournal opens the journal database and starts a session for baseURL
func OpenJournal(dbPath, baseURL string, logger *zap.Logger) (*Journal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}
	session, err := db.StartSession(baseURL)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, session: session, logger: logger}, nil
}

// TryOpenJournal opens the journal, logging errors instead of failing
func TryOpenJournal(dbPath, baseURL string, logger *zap.Logger) *Journal {
	j, err := OpenJournal(dbPath, baseURL, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("journal disabled", zap.String("path", dbPath), zap.Error(err))
		}
		return nil
	}
	return j
}

// Record stores one mutation outcome and bumps the session counters
func (j *Journal) Record(action, reviewID string, private bool, opErr error) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	m := &model.Mutation{
		SessionID: j.session.ID,
		Action:    action,
		ReviewID:  reviewID,
		Private:   private,
		OK:        opErr == nil,
		CreatedAt: time.Now(),
	}
	if opErr != nil {
		m.Error = opErr.Error()
	}

	if err := j.db.CreateMutation(m); err != nil {
		j.logger.Warn("failed to record mutation", zap.String("action", action), zap.String("review_id", reviewID), zap.Error(err))
		return
	}

	if opErr != nil {
		j.session.Failed++
	} else {
		switch action {
		case model.ActionCreate:
			j.session.Created++
		case model.ActionUpdate:
			j.session.Updated++
		case model.ActionDelete:
			j.session.Deleted++
		}
	}
	if err := j.db.UpdateSessionCounters(j.session); err != nil {
		j.logger.Warn("failed to update session counters", zap.Error(err))
	}
}

// RecordDeletes stores every outcome of a batch delete
func (j *Journal) RecordDeletes(res DeleteResult, private bool) {
	for _, id := range res.Deleted {
		j.Record(model.ActionDelete, id, private, nil)
	}
	for _, id := range res.FailedIDs() {
		j.Record(model.ActionDelete, id, private, res.Failed[id])
	}
}

// Recent returns the latest journal entries, newest first
func (j *Journal) Recent(limit int) ([]model.Mutation, error) {
	if j == nil {
		return nil, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.RecentMutations(limit)
}

// History returns the journal entries for one review
func (j *Journal) History(reviewID string) ([]model.Mutation, error) {
	if j == nil {
		return nil, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.MutationsForReview(reviewID)
}

// Session returns a copy of the current session counters
func (j *Journal) Session() model.Session {
	if j == nil {
		return model.Session{}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return *j.session
}

// Close completes the session and closes the database
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.db.CompleteSession(j.session); err != nil {
		j.logger.Warn("failed to complete session", zap.Error(err))
	}
	return j.db.Close()
}
