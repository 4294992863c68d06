// Package pipeline runs a fixed sequence of stages over a shared state
// value and reports progress through a channel of events.
//
// Stages do not return errors. A stage that hits a failure records it
// in the state it returns, and every later stage checks that record
// first and passes the state through untouched. The engine always
// invokes every stage; short-circuiting is a property of the stages,
// not the loop. One rule holds everywhere: the first fault wins, and
// every stage after it passes the state through.
package pipeline

import "context"

// Stage is one step of a pipeline. Run receives the state produced by
// the previous stage and returns the next state. Name and Message
// describe the stage in progress events; Percent is the progress value
// announced before the stage runs.
type Stage[S any] struct {
	Name    string
	Message string
	Percent int
	Run     func(ctx context.Context, state S) S
}

// Pipeline is an ordered set of stages plus a finish function that
// shapes the final state into the payload of the terminal result
// event.
type Pipeline[S any] struct {
	name   string
	done   string
	stages []Stage[S]
	finish func(S) any
}

// New assembles a pipeline. done is the message carried by the
// terminal result event; finish converts the final state into that
// event's payload. Synchronous callers read the returned state
// directly, so finish may be nil for a pipeline that never streams.
func New[S any](name, done string, finish func(S) any, stages ...Stage[S]) *Pipeline[S] {
	return &Pipeline[S]{name: name, done: done, stages: stages, finish: finish}
}

// Name returns the pipeline's label used in progress events and logs.
func (p *Pipeline[S]) Name() string { return p.name }

// Run executes every stage in order and returns the final state. It
// never fails: faults travel inside the state, and stages downstream
// of a fault pass it along unchanged.
func (p *Pipeline[S]) Run(ctx context.Context, state S) S {
	for _, stage := range p.stages {
		state = stage.Run(ctx, state)
	}
	return state
}
