package model

import "time"

// Mutation actions recorded in the journal
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// IsValidAction checks if a journal action is valid
func IsValidAction(action string) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Mutation is one create, update or delete sent to the review service
type Mutation struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Action    string    `json:"action"`
	ReviewID  string    `json:"review_id"`
	Private   bool      `json:"private"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session groups the mutations made during one run of the browser
type Session struct {
	ID          int64      `json:"id"`
	BaseURL     string     `json:"base_url"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Created     int        `json:"created"`
	Updated     int        `json:"updated"`
	Deleted     int        `json:"deleted"`
	Failed      int        `json:"failed"`
}
