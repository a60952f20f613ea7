package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
)

// fakeModel records the batch sizes it was called with and returns a
// one-element vector per input text.
type fakeModel struct {
	batches [][]string
	err     error
}

func (f *fakeModel) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{float64(len(texts[i]))}
	}
	return out, nil
}

func TestBatcherSplitsBatches(t *testing.T) {
	t.Parallel()

	model := &fakeModel{}
	b, err := NewBatcher(model, 2)
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := b.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(texts))
	}
	if len(model.batches) != 3 {
		t.Fatalf("got %d upstream calls, want 3", len(model.batches))
	}
	for i, text := range texts {
		if vectors[i][0] != float32(len(text)) {
			t.Errorf("vector %d = %v, want %v", i, vectors[i][0], len(text))
		}
	}
}

func TestBatcherEmptyInput(t *testing.T) {
	t.Parallel()

	b, err := NewBatcher(&fakeModel{}, 0)
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}
	if b.batchSize != DefaultBatchSize {
		t.Errorf("batchSize = %d, want %d", b.batchSize, DefaultBatchSize)
	}

	vectors, err := b.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if vectors != nil {
		t.Errorf("expected nil vectors for empty input, got %v", vectors)
	}
}

func TestBatcherPropagatesError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("upstream down")
	b, err := NewBatcher(&fakeModel{err: wantErr}, 4)
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}

	if _, err := b.Embed(context.Background(), []string{"x"}); !errors.Is(err, wantErr) {
		t.Errorf("Embed error = %v, want wrapped %v", err, wantErr)
	}
}

func TestBatcherNilModel(t *testing.T) {
	t.Parallel()

	if _, err := NewBatcher(nil, 1); err == nil {
		t.Error("expected error for nil model")
	}
}
