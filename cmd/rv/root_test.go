package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

type reviewServer struct {
	mu      sync.Mutex
	reviews map[string]model.Review
	deleted []string
}

func newReviewServer(t *testing.T) (*reviewServer, *httptest.Server) {
	t.Helper()
	rs := &reviewServer{reviews: map[string]model.Review{
		"a": {ID: "a", Show: "Dark", Author: "jonas", Rating: 4, Review: "Time loops"},
		"b": {ID: "b", Show: "Andor", Author: "cass", Rating: 5, Review: "Slow burn"},
	}}
	srv := httptest.NewServer(http.HandlerFunc(rs.serve))
	t.Cleanup(srv.Close)
	return rs, srv
}

func (rs *reviewServer) serve(w http.ResponseWriter, r *http.Request) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/private")
	id := strings.TrimPrefix(strings.TrimPrefix(path, "/reviews"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		out := []model.Review{}
		for _, key := range []string{"a", "b", "new"} {
			if rev, ok := rs.reviews[key]; ok {
				out = append(out, rev)
			}
		}
		json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodGet:
		rev, ok := rs.reviews[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(rev)
	case r.Method == http.MethodPost:
		var in model.ReviewInput
		json.NewDecoder(r.Body).Decode(&in)
		rev := model.Review{ID: "new", Show: in.Show, Author: in.Author, Rating: in.Rating, Review: in.Review}
		rs.reviews["new"] = rev
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rev)
	case r.Method == http.MethodPut:
		var in model.ReviewInput
		json.NewDecoder(r.Body).Decode(&in)
		rev := model.Review{ID: id, Show: in.Show, Author: in.Author, Rating: in.Rating, Review: in.Review}
		rs.reviews[id] = rev
		json.NewEncoder(w).Encode(rev)
	case r.Method == http.MethodDelete:
		if _, ok := rs.reviews[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(rs.reviews, id)
		rs.deleted = append(rs.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// run executes rv with args against srv, with an isolated config dir and journal
func run(t *testing.T, srv *httptest.Server, journal string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{"--base-url", srv.URL, "--log-file", "", "--journal", journal, "--retries", "0"}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList_Table(t *testing.T) {
	_, srv := newReviewServer(t)
	out, err := run(t, srv, "", "list")
	if err != nil {
		t.Fatalf("list error: %v\n%s", err, out)
	}
	for _, want := range []string{"Dark", "Andor", "4 Great", "5 Excellent!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestRoot_NonTerminalPrintsTable(t *testing.T) {
	_, srv := newReviewServer(t)
	out, err := run(t, srv, "")
	if err != nil {
		t.Fatalf("rv error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Time loops") {
		t.Errorf("Expected plain table, got:\n%s", out)
	}
}

func TestList_JSON(t *testing.T) {
	_, srv := newReviewServer(t)
	out, err := run(t, srv, "", "list", "--format", "json")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	var got []model.Review
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 reviews, got %d", len(got))
	}
}

func TestAddUpdateDelete_Journaled(t *testing.T) {
	rs, srv := newReviewServer(t)
	journal := filepath.Join(t.TempDir(), "journal.db")

	out, err := run(t, srv, journal, "add", "--show", "Severance", "--author", "mia", "--rating", "5", "--review", "Great")
	if err != nil {
		t.Fatalf("add error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Created review new") {
		t.Errorf("Unexpected add output: %s", out)
	}

	if out, err = run(t, srv, journal, "update", "a", "--rating", "2"); err != nil {
		t.Fatalf("update error: %v\n%s", err, out)
	}
	rs.mu.Lock()
	updated := rs.reviews["a"]
	rs.mu.Unlock()
	if updated.Rating != 2 || updated.Show != "Dark" {
		t.Errorf("Expected only rating changed, got %+v", updated)
	}

	out, err = run(t, srv, journal, "delete", "a", "missing")
	if err == nil {
		t.Error("Expected error for failed delete")
	}
	if !strings.Contains(out, "Deleted a") {
		t.Errorf("Expected successful delete reported, got: %s", out)
	}

	out, err = run(t, srv, journal, "history")
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	for _, want := range []string{"create", "update", "delete", "missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in history:\n%s", want, out)
		}
	}
}

func TestAdd_InvalidInput(t *testing.T) {
	_, srv := newReviewServer(t)
	if _, err := run(t, srv, "", "add", "--show", "x", "--rating", "7"); err == nil {
		t.Error("Expected validation error")
	}
}

func TestExport_File(t *testing.T) {
	_, srv := newReviewServer(t)
	path := filepath.Join(t.TempDir(), "reviews.yaml")
	out, err := run(t, srv, "", "export", "--output", path)
	if err != nil {
		t.Fatalf("export error: %v\n%s", err, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if !strings.Contains(string(data), "show: Dark") {
		t.Errorf("Unexpected yaml:\n%s", data)
	}
}

func TestHistory_DisabledJournal(t *testing.T) {
	_, srv := newReviewServer(t)
	if _, err := run(t, srv, "", "history"); err == nil {
		t.Error("Expected error when the journal is disabled")
	}
}

func TestVersion(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "rv v") {
		t.Errorf("Unexpected version output %q", out.String())
	}
}
