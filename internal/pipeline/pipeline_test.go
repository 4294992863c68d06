package pipeline

import (
	"context"
	"testing"
)

func appendStage(name string, percent int) Stage[[]string] {
	return Stage[[]string]{
		Name:    name,
		Message: name + "...",
		Percent: percent,
		Run: func(ctx context.Context, state []string) []string {
			return append(state, name)
		},
	}
}

func TestRunInvokesStagesInOrder(t *testing.T) {
	p := New("test", "done", func(s []string) any { return s },
		appendStage("first", 25),
		appendStage("second", 50),
		appendStage("third", 75),
	)

	got := p.Run(context.Background(), nil)

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("ran %d stages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stage %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunInvokesEveryStageEvenWhenStateCarriesFault(t *testing.T) {
	type state struct {
		failed bool
		calls  int
	}
	// Stages follow the short-circuit convention: check the fault slot
	// first, pass through unchanged. The engine must still invoke them.
	guarded := Stage[*state]{
		Name: "guarded",
		Run: func(ctx context.Context, s *state) *state {
			s.calls++
			if s.failed {
				return s
			}
			return s
		},
	}
	p := New("test", "done", func(s *state) any { return s }, guarded, guarded, guarded)

	got := p.Run(context.Background(), &state{failed: true})

	if got.calls != 3 {
		t.Errorf("stages invoked %d times, want 3", got.calls)
	}
}

func TestRunWithNoStagesReturnsInitialState(t *testing.T) {
	p := New("empty", "done", func(s int) any { return s })
	if got := p.Run(context.Background(), 42); got != 42 {
		t.Errorf("Run = %d, want 42", got)
	}
}

func TestName(t *testing.T) {
	p := New("research", "done", func(s int) any { return s })
	if p.Name() != "research" {
		t.Errorf("Name() = %q, want %q", p.Name(), "research")
	}
}
