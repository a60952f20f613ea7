package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/filterchat/filterchat-go/internal/index"
)

func TestSearchText(t *testing.T) {
	t.Parallel()

	d := FilterDefinition{
		DisplayName: "Client Age",
		Description: "Age of the client",
		Keywords:    []string{"age", "years old"},
	}
	want := "Client Age, Age of the client, age, years old"
	if got := d.SearchText(); got != want {
		t.Errorf("SearchText() = %q, want %q", got, want)
	}
}

func TestSearchTextSkipsEmptyFields(t *testing.T) {
	t.Parallel()

	d := FilterDefinition{DisplayName: "Client Age"}
	if got := d.SearchText(); got != "Client Age" {
		t.Errorf("SearchText() = %q", got)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Client Age", "client_age"},
		{"Last-Contact Date", "last_contact_date"},
		{"  Account Balance  ", "account_balance"},
		{"Q4 Revenue (USD)", "q4_revenue_usd"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[
		{"displayName": "Client Age", "type": "NUMBER", "category": "Client", "operators": ["GREATER_THAN"]},
		{"id": "custom_id", "displayName": "Account Balance", "type": "NUMBER"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	defs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d definitions", len(defs))
	}
	if defs[0].ID != "client_age" {
		t.Errorf("missing ID should be derived, got %q", defs[0].ID)
	}
	if defs[1].ID != "custom_id" {
		t.Errorf("explicit ID should be kept, got %q", defs[1].ID)
	}
}

func TestLoadRejectsMissingDisplayName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`[{"type": "NUMBER"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for entry without displayName")
	}
}

// fakeEmbedder returns a fixed-size vector per text.
type fakeEmbedder struct{ calls int }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2}
	}
	return out, nil
}

// recordingStore captures upserted entries.
type recordingStore struct {
	entries []index.Entry
	upserts int
}

func (r *recordingStore) Upsert(_ context.Context, entries []index.Entry, vectors [][]float32) error {
	r.entries = append(r.entries, entries...)
	r.upserts++
	return nil
}

func (r *recordingStore) Search(_ context.Context, _ []float32, _ int, _ string, _ float32) ([]index.Candidate, error) {
	return nil, nil
}

func (r *recordingStore) Close() error { return nil }

func TestIngestSampleCatalog(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{}
	store := &recordingStore{}
	ing, err := NewIngestor(embedder, store)
	if err != nil {
		t.Fatalf("NewIngestor: %v", err)
	}

	var progress []int
	ing.Progress = func(done, total int) { progress = append(progress, done) }

	defs := Sample()
	n, err := ing.Ingest(context.Background(), defs)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if n != len(defs) {
		t.Errorf("ingested %d, want %d", n, len(defs))
	}
	if len(store.entries) != len(defs) {
		t.Errorf("stored %d entries, want %d", len(store.entries), len(defs))
	}
	// 10 definitions at batch size 8 means two batches.
	if store.upserts != 2 {
		t.Errorf("upserts = %d, want 2", store.upserts)
	}
	if len(progress) != 2 || progress[len(progress)-1] != len(defs) {
		t.Errorf("progress = %v", progress)
	}

	for _, e := range store.entries {
		if e.ID == "" || e.DisplayName == "" || e.SearchText == "" {
			t.Errorf("incomplete entry: %+v", e)
		}
	}
}
