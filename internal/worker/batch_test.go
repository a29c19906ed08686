package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/dispatch"
	"github.com/ppiankov/claimcheck/internal/model"
)

// mockCaller implements Caller
type mockCaller struct {
	mu    sync.Mutex
	calls []map[string]any
	fail  string // texts equal to this fail
}

func (m *mockCaller) Call(ctx context.Context, name string, args map[string]any) (*dispatch.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, args)
	m.mu.Unlock()

	text, _ := args["text"].(string)
	// Later inputs finish first so completion order differs from input order
	time.Sleep(time.Duration(10-len(text)%10) * time.Millisecond)

	if text == m.fail {
		return nil, errors.New("call error")
	}
	return &dispatch.Result{Operation: name, Text: text}, nil
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_Process_Order(t *testing.T) {
	caller := &mockCaller{}
	processor := NewBatchProcessor(caller, 4)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}
	results, err := processor.Process(context.Background(), dispatch.OpAnalyzeClaim, "", texts)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}

	for i, res := range results {
		if res.Index != i {
			t.Errorf("expected index %d, got %d", i, res.Index)
		}
		if res.Input != texts[i] {
			t.Errorf("expected input %q at index %d, got %q", texts[i], i, res.Input)
		}
		if res.Result == nil || res.Result.Text != texts[i] {
			t.Errorf("result %d does not match its input", i)
		}
	}
}

func TestBatchProcessor_Process_PerItemErrors(t *testing.T) {
	caller := &mockCaller{fail: "bad"}
	processor := NewBatchProcessor(caller, 2)

	results, err := processor.Process(context.Background(), dispatch.OpAnalyzeClaim, "", []string{"good", "bad", "fine"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if results[0].GetError() != nil || results[2].GetError() != nil {
		t.Error("expected successful items to carry no error")
	}
	if results[1].GetError() == nil {
		t.Error("expected error for the failing item")
	}
	if results[1].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_Process_Framework(t *testing.T) {
	caller := &mockCaller{}
	processor := NewBatchProcessor(caller, 1)

	_, err := processor.Process(context.Background(), dispatch.OpValidateSources, model.FrameworkHarmonic, []string{"x"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got := caller.calls[0]["framework"]; got != "harmonic" {
		t.Errorf("expected framework harmonic, got %v", got)
	}

	caller = &mockCaller{}
	processor = NewBatchProcessor(caller, 1)
	_, _ = processor.Process(context.Background(), dispatch.OpValidateSources, "", []string{"x"})
	if _, ok := caller.calls[0]["framework"]; ok {
		t.Error("expected no framework argument when none is given")
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockCaller{}, 2)

	results, err := processor.Process(context.Background(), dispatch.OpAnalyzeClaim, "", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
}

func TestBatchProcessor_Process_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockCaller{}, 2)
	_, err := processor.Process(ctx, dispatch.OpAnalyzeClaim, "", []string{"a", "b"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBatchProcessor_Dispatcher(t *testing.T) {
	d, err := dispatch.New(model.FrameworkEmpirical, zap.NewNop())
	if err != nil {
		t.Fatalf("dispatch.New failed: %v", err)
	}

	processor := NewBatchProcessor(d, 3)
	texts := []string{
		"Research shows this works.",
		"Act now, limited time offer!",
		"Experts say it is safe.",
	}

	results, err := processor.Process(context.Background(), dispatch.OpCheckManipulation, "", texts)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if results[0].Error != nil || results[1].Error != nil || results[2].Error != nil {
		t.Fatal("expected no errors from a valid batch")
	}
	if !strings.Contains(results[1].Result.Text, "scarcity") {
		t.Errorf("expected scarcity in report, got %q", results[1].Result.Text)
	}
	if !strings.Contains(results[2].Result.Text, "authority") {
		t.Errorf("expected authority in report, got %q", results[2].Result.Text)
	}
	if !strings.Contains(results[0].Result.Text, "Detected patterns: None") {
		t.Errorf("expected no patterns, got %q", results[0].Result.Text)
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTemp(t, "first claim\nsecond claim\n# comment\n\nthird claim\n")

	processor := NewBatchProcessor(&mockCaller{}, 2)
	results, err := processor.ProcessFile(context.Background(), dispatch.OpAnalyzeClaim, "", path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockCaller{}, 2)

	_, err := processor.ProcessFile(context.Background(), dispatch.OpAnalyzeClaim, "", "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadLinesFromFile(t *testing.T) {
	path := writeTemp(t, "Studies show X.\n# comment\nExperts agree.\n   \n  Studies show X.  ")

	lines, err := ReadLinesFromFile(path)
	if err != nil {
		t.Fatalf("ReadLinesFromFile failed: %v", err)
	}

	// Duplicates kept
	expected := []string{"Studies show X.", "Experts agree.", "Studies show X."}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(lines))
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("expected line %q at index %d, got %q", expected[i], i, line)
		}
	}
}

func TestCallResult_GetError(t *testing.T) {
	r1 := &CallResult{Input: "x"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("call failed")
	r2 := &CallResult{Input: "x", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
