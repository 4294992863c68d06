package pipeline

// EventKind labels a progress event emitted while a pipeline streams.
type EventKind string

const (
	// KindStatus announces that a stage is about to run.
	KindStatus EventKind = "status"
	// KindResult carries the final payload. Exactly one is emitted per
	// successful stream, always at progress 100.
	KindResult EventKind = "result"
	// KindError terminates a stream whose run collapsed before a
	// result could be assembled.
	KindError EventKind = "error"
)

// Event is one unit of pipeline progress. Status events describe the
// stage about to run; the terminal event is either a result or an
// error, never both.
type Event struct {
	Kind     EventKind `json:"type"`
	Step     string    `json:"step"`
	Message  string    `json:"message"`
	Progress int       `json:"progress"`
	Data     any       `json:"data,omitempty"`
}
