package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/errors"
	"github.com/movey-network/movey/pkg/integrations/movey"
	"github.com/movey-network/movey/pkg/lockfile"
)

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, movey.InfoPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleInfo(t *testing.T) {
	h := NewHandler(seededIndex(t), nil, nil)

	rec := post(t, h, `{"schemes":["movedemo-ea:1.0.0",{"addr":"0x2","chain":"sui/devnet"},"ghost-ea:1.0.0"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var records []deps.Dependency
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %+v, want 2 (unknown scheme omitted)", records)
	}
	if records[0].Scheme != "0x2@sui/devnet" || records[1].Scheme != "movedemo-ea" {
		t.Errorf("records not sorted by scheme: %+v", records)
	}
}

func TestHandleInfoDeduplicates(t *testing.T) {
	h := NewHandler(seededIndex(t), nil, nil)

	rec := post(t, h, `{"schemes":["movedemo-ea:1.0.0","movedemo-ea"]}`)
	var records []deps.Dependency
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("records = %+v, want one", records)
	}
}

func TestHandleInfoSkipsOtherVersions(t *testing.T) {
	h := NewHandler(seededIndex(t), nil, nil)

	rec := post(t, h, `{"schemes":["movedemo-ea:2.0.0"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var records []deps.Dependency
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want none for an unpublished version", records)
	}
}

func TestHandleInfoErrors(t *testing.T) {
	tests := []struct {
		name   string
		index  Index
		body   string
		status int
	}{
		{"malformed body", NewMemoryIndex(), `{"schemes":`, http.StatusBadRequest},
		{"invalid scheme", NewMemoryIndex(), `{"schemes":[42]}`, http.StatusBadRequest},
		{"index failure", failingIndex{}, `{"schemes":["a-ea:1.0.0"]}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, NewHandler(tt.index, nil, nil), tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "movey_up 1\n")
	})
	h := NewHandler(NewMemoryIndex(), nil, metrics)

	for path, want := range map[string]string{"/healthz": "ok", "/metrics": "movey_up 1\n"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("GET %s = %d %q, want 200 %q", path, rec.Code, rec.Body, want)
		}
	}

	rec := httptest.NewRecorder()
	NewHandler(NewMemoryIndex(), nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without handler = %d, want 404", rec.Code)
	}
}

// The development server must satisfy the resolver end to end.
func TestResolverAgainstServer(t *testing.T) {
	server := httptest.NewServer(NewHandler(seededIndex(t), nil, nil))
	defer server.Close()

	client := movey.NewClient(server.URL, "test", nil)
	resolved, err := client.Resolve(context.Background(), map[string]deps.Scheme{
		"MoveDemo": deps.PlainScheme("movedemo-ea:1.0.0"),
		"Sui":      deps.StructuredScheme(map[string]any{"addr": "0x2", "chain": "sui/devnet"}),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	got, err := lockfile.Render(resolved)
	if err != nil {
		t.Fatal(err)
	}
	want := `[[package]]
name = "MoveDemo"
version = "1.0.0"
repository_url = "https://github.com/ea-movey/MoveDemo"
rev = "4d0d1f4"

[[package]]
name = "Sui"
version = "0.1.0"
repository_url = "https://github.com/MystenLabs/sui"
rev = "main"
`
	if got != want {
		t.Errorf("lock =\n%s\nwant\n%s", got, want)
	}

	_, err = client.Resolve(context.Background(), map[string]deps.Scheme{
		"Ghost": deps.PlainScheme("ghost-ea:1.0.0"),
	})
	if !errors.Is(err, errors.ErrCodeUnexpected) {
		t.Errorf("unknown scheme error = %v, want UNEXPECTED", err)
	}
}
