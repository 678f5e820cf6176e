package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"v0.1.0", "v0.1.0", 0},
		{"v0.1.1", "v0.1.0", 1},
		{"v0.10.0", "v0.2.0", 1},
		{"0.2.0", "v0.10.0", -1},
		{"v1.0", "v1.0.0", 0},
		{"v1.2.0-rc1", "v1.2.0", 0},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.v1, tt.v2); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
		}
	}
}

func TestCheckForUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v0.3.0","html_url":"https://example.test/v0.3.0"}`))
	}))
	defer server.Close()

	tag, url, err := CheckForUpdates(context.Background(), server.Client(), server.URL, "v0.2.9")
	if err != nil {
		t.Fatalf("CheckForUpdates error: %v", err)
	}
	if tag != "v0.3.0" || url != "https://example.test/v0.3.0" {
		t.Errorf("Unexpected result %q %q", tag, url)
	}

	tag, _, err = CheckForUpdates(context.Background(), server.Client(), server.URL, "v0.3.0")
	if err != nil || tag != "" {
		t.Errorf("Expected no update, got %q %v", tag, err)
	}
}

func TestCheckForUpdates_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, _, err := CheckForUpdates(context.Background(), server.Client(), server.URL, "v0.1.0"); err == nil {
		t.Error("Expected error for non-200 status")
	}
}
