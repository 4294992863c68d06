package pipeline

import (
	"context"
	"fmt"
)

// RunStream executes the pipeline in a producer goroutine and returns
// a channel of progress events. The channel has capacity one, so the
// producer hands events over one at a time and blocks until the
// consumer takes each; at most one event is ever buffered. Before each
// stage runs, a status event announces it. After the last stage,
// exactly one terminal event follows: a result carrying the finish
// payload at progress 100, or an error if a stage panicked. The
// channel is closed once the terminal event is delivered.
//
// There is no mid-stage cancellation. A consumer that is done cancels
// ctx and stops reading; the producer notices at the next event
// boundary, abandons the run, and closes the channel.
func (p *Pipeline[S]) RunStream(ctx context.Context, state S) <-chan Event {
	ch := make(chan Event, 1)
	go func() {
		defer close(ch)
		defer func() {
			if r := recover(); r != nil {
				send(ctx, ch, Event{
					Kind:    KindError,
					Step:    "failed",
					Message: fmt.Sprintf("%s pipeline failed: %v", p.name, r),
				})
			}
		}()
		for _, stage := range p.stages {
			ev := Event{
				Kind:     KindStatus,
				Step:     stage.Name,
				Message:  stage.Message,
				Progress: stage.Percent,
			}
			if !send(ctx, ch, ev) {
				return
			}
			state = stage.Run(ctx, state)
		}
		var data any
		if p.finish != nil {
			data = p.finish(state)
		}
		send(ctx, ch, Event{
			Kind:     KindResult,
			Step:     "completed",
			Message:  p.done,
			Progress: 100,
			Data:     data,
		})
	}()
	return ch
}

// send delivers ev unless ctx ends first. It reports whether the
// handoff happened.
func send(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
