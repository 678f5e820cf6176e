package ui

import (
	"github.com/Dicklesworthstone/review_viewer/pkg/loader"
	"github.com/Dicklesworthstone/review_viewer/pkg/model"
	"github.com/Dicklesworthstone/review_viewer/pkg/review"
)

// reviewsLoadedMsg carries the result of a fetch started by Loader.Begin
type reviewsLoadedMsg struct {
	req     loader.Request
	reviews []model.Review
	err     error
}

// SelectionChangedMsg replaces the selection set with IDs
type SelectionChangedMsg struct {
	IDs []string
}

// deleteDoneMsg arrives once every delete of a batch has settled
type deleteDoneMsg struct {
	result  review.DeleteResult
	private bool
}

// modalClosedMsg is the edit modal's close notification
type modalClosedMsg struct {
	saved int
	err   error
}

// TokenChangedMsg delivers a new access token from the token file watcher
type TokenChangedMsg struct {
	Token string
}

// statusMsg shows a one-line status
type statusMsg struct {
	text string
	err  error
}
