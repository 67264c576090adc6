package scorer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sredun/internal/receptor"
	"sredun/internal/scorecache"
	"sredun/internal/scorer"
)

type stubCall struct {
	output string
	err    error
}

type stubExecutor struct {
	calls []stubCall
	runs  int
	args  [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cloned := append([]string(nil), args...)
	s.args = append(s.args, cloned)
	call := s.calls[s.runs]
	s.runs++
	return call.output, call.err
}

func testPair(t *testing.T) (*receptor.Receptor, *receptor.Receptor) {
	t.Helper()
	reg := receptor.NewRegistry(t.TempDir())
	source, err := reg.Register("HEADER 1ABC_POCKET\nATOM 1\nTER")
	if err != nil {
		t.Fatalf("Register source: %v", err)
	}
	target, err := reg.Register("HEADER 2XYZ_POCKET\nATOM 1\nTER")
	if err != nil {
		t.Fatalf("Register target: %v", err)
	}
	return source, target
}

func TestScoreSucceedsFirstAttempt(t *testing.T) {
	source, target := testPair(t)
	exec := &stubExecutor{calls: []stubCall{{output: "GA-score: 0.8317\n"}}}
	s, err := scorer.New("glosa", 0, nil, scorer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	res, err := s.Score(context.Background(), source, target)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if res.Failed {
		t.Fatal("expected success")
	}
	if res.Score != 0.8317 {
		t.Errorf("Score mismatch: got %v", res.Score)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts mismatch: got %d, want 1", res.Attempts)
	}

	want := []string{
		"-s1", source.PocketPath(),
		"-s1cf", source.FeaturesPath(),
		"-s2", target.PocketPath(),
		"-s2cf", target.FeaturesPath(),
	}
	if len(exec.args) != 1 {
		t.Fatalf("expected one invocation, got %d", len(exec.args))
	}
	got := exec.args[0]
	if len(got) != len(want) {
		t.Fatalf("argument count mismatch: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg[%d] mismatch: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScoreRetriesOnProcessError(t *testing.T) {
	source, target := testPair(t)
	exec := &stubExecutor{calls: []stubCall{
		{err: errors.New("exit status 1")},
		{output: "GA-score: 0.5\n"},
	}}
	s, err := scorer.New("glosa", 0, nil, scorer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	res, err := s.Score(context.Background(), source, target)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if res.Failed || res.Score != 0.5 {
		t.Fatalf("expected recovery on second attempt, got %+v", res)
	}
	if res.Attempts != 2 {
		t.Errorf("Attempts mismatch: got %d, want 2", res.Attempts)
	}
}

func TestScoreRetriesOnMissingMarker(t *testing.T) {
	source, target := testPair(t)
	exec := &stubExecutor{calls: []stubCall{
		{output: "alignment crashed halfway\n"},
		{output: "GA-score: garbage\n"},
		{output: "GA-score: 0.77\n"},
	}}
	s, err := scorer.New("glosa", 0, nil, scorer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	res, err := s.Score(context.Background(), source, target)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if res.Failed || res.Score != 0.77 {
		t.Fatalf("expected recovery on third attempt, got %+v", res)
	}
	if exec.runs != 3 {
		t.Errorf("invocation count mismatch: got %d, want 3", exec.runs)
	}
}

func TestScoreExhaustsAttemptBudget(t *testing.T) {
	source, target := testPair(t)
	exec := &stubExecutor{calls: []stubCall{
		{err: errors.New("exit status 1")},
		{err: errors.New("exit status 1")},
		{output: "partial output, no marker\n"},
	}}
	s, err := scorer.New("glosa", 0, nil, scorer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	res, err := s.Score(context.Background(), source, target)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if !res.Failed {
		t.Fatal("expected failure after exhausting attempts")
	}
	if res.Score != scorecache.Sentinel {
		t.Errorf("Score mismatch: got %v, want sentinel", res.Score)
	}
	if res.RawOutput != "partial output, no marker\n" {
		t.Errorf("RawOutput should be the last attempt's output, got %q", res.RawOutput)
	}
	if exec.runs != 3 {
		t.Errorf("invocation count mismatch: got %d, want 3", exec.runs)
	}
}

func TestScoreObserverDistinguishesRetryFromFinal(t *testing.T) {
	source, target := testPair(t)
	exec := &stubExecutor{calls: []stubCall{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	var seen []scorer.Attempt
	s, err := scorer.New("glosa", 0, nil,
		scorer.WithExecutor(exec),
		scorer.WithObserver(func(a scorer.Attempt) { seen = append(seen, a) }))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := s.Score(context.Background(), source, target); err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 observed attempts, got %d", len(seen))
	}
	for i, a := range seen {
		if a.Number != i+1 {
			t.Errorf("attempt %d reported number %d", i+1, a.Number)
		}
		wantFinal := i == 2
		if a.Final != wantFinal {
			t.Errorf("attempt %d Final = %v, want %v", i+1, a.Final, wantFinal)
		}
		if a.Pair != source.Name+"<->"+target.Name {
			t.Errorf("attempt %d pair = %q", i+1, a.Pair)
		}
		if !strings.Contains(a.Command, "-s1 "+source.PocketPath()) {
			t.Errorf("attempt %d command missing source flag: %q", i+1, a.Command)
		}
		if a.Err == nil {
			t.Errorf("attempt %d missing failure reason", i+1)
		}
	}
}

func TestScoreStopsOnCanceledContext(t *testing.T) {
	source, target := testPair(t)
	exec := &stubExecutor{calls: []stubCall{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	s, err := scorer.New("glosa", 0, nil, scorer.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Score(ctx, source, target)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if exec.runs != 1 {
		t.Errorf("expected no retries after cancellation, got %d runs", exec.runs)
	}
	if !res.Failed || res.Score != scorecache.Sentinel {
		t.Errorf("canceled result should carry the sentinel, got %+v", res)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := scorer.New("  ", 0, nil); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
