package pipeline

// Field wraps a value that a stage may or may not have produced yet.
// The zero Field is absent; FieldOf yields a present one. Absence is a
// first-class state so downstream stages can distinguish "no rows"
// from "execution never happened".
type Field[T any] struct {
	value   T
	present bool
}

// FieldOf returns a present Field holding v.
func FieldOf[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

// Present reports whether the field holds a value.
func (f Field[T]) Present() bool { return f.present }

// Value returns the held value, or the zero value when absent.
func (f Field[T]) Value() T { return f.value }

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) { return f.value, f.present }
