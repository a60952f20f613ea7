package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeChatModel returns scripted responses or errors, one per call.
type fakeChatModel struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return schema.AssistantMessage(f.responses[i], nil), nil
	}
	return nil, errors.New("no scripted response")
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func newTestClient(t *testing.T, m model.BaseChatModel, retries int) *EinoClient {
	t.Helper()
	c, err := NewEinoClient(m, retries)
	if err != nil {
		t.Fatalf("NewEinoClient: %v", err)
	}
	c.retryDelay = time.Millisecond
	return c
}

func TestGeneratePlainText(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeChatModel{responses: []string{"hello there"}}, 1)
	got, err := c.Generate(context.Background(), "sys", "user", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello there" {
		t.Errorf("got %q", got)
	}
}

func TestGenerateJSONMode(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, &fakeChatModel{responses: []string{`{"a": 1}`}}, 1)
	got, err := c.Generate(context.Background(), "sys", "user", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"a": 1}` {
		t.Errorf("got %q", got)
	}
}

func TestGenerateJSONModeExtractsFromProse(t *testing.T) {
	t.Parallel()

	content := "Sure! Here is the result:\n```json\n[{\"text\": \"age\"}]\n```"
	c := newTestClient(t, &fakeChatModel{responses: []string{content}}, 1)
	got, err := c.Generate(context.Background(), "sys", "user", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `[{"text": "age"}]` {
		t.Errorf("got %q", got)
	}
}

func TestGenerateRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	m := &fakeChatModel{
		errs:      []error{errors.New("timeout"), nil},
		responses: []string{"", "recovered"},
	}
	c := newTestClient(t, m, 3)
	got, err := c.Generate(context.Background(), "sys", "user", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "recovered" {
		t.Errorf("got %q", got)
	}
	if m.calls != 2 {
		t.Errorf("calls = %d, want 2", m.calls)
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	t.Parallel()

	m := &fakeChatModel{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	c := newTestClient(t, m, 3)
	_, err := c.Generate(context.Background(), "sys", "user", false)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "all 3 attempts failed") {
		t.Errorf("error = %v", err)
	}
	if m.calls != 3 {
		t.Errorf("calls = %d, want 3", m.calls)
	}
}

func TestGenerateJSONModeFailsOnProseOnly(t *testing.T) {
	t.Parallel()

	m := &fakeChatModel{responses: []string{"no json here", "still none"}}
	c := newTestClient(t, m, 2)
	_, err := c.Generate(context.Background(), "sys", "user", true)
	if !errors.Is(err, ErrNotJSON) {
		t.Errorf("error = %v, want ErrNotJSON", err)
	}
}

func TestEnsureJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"clean object", `{"x": 1}`, `{"x": 1}`, false},
		{"clean array", `[1, 2]`, `[1, 2]`, false},
		{"fenced", "```json\n{\"x\": 1}\n```", `{"x": 1}`, false},
		{"prose wrapped", `The answer is {"x": 1}. Hope that helps!`, `{"x": 1}`, false},
		{"brackets in strings", `result: {"v": "a [b] c"}`, `{"v": "a [b] c"}`, false},
		{"nested", `x {"a": {"b": [1, 2]}} y`, `{"a": {"b": [1, 2]}}`, false},
		{"no json", "plain prose only", "", true},
		{"unbalanced", `{"a": 1`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := EnsureJSON(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrNotJSON) {
					t.Fatalf("err = %v, want ErrNotJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EnsureJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
