package domain

import "encoding/json"

// Opt is a tri-state update field. A field left out of the payload keeps
// the stored value, an explicit JSON null clears the column, and a value
// replaces it. COALESCE cannot express the first two, so update paths
// resolve every Opt to its final column value before composing a single
// SET statement.
type Opt[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON is only invoked for fields that appear in the payload,
// which is what makes the absent state observable.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Some builds a present, non-null Opt. Test helper shape.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Present: true, Value: v}
}

// Null builds a present, explicit-null Opt.
func Null[T any]() Opt[T] {
	return Opt[T]{Present: true, Null: true}
}

// Resolve returns the final column value given the currently stored one.
func (o Opt[T]) Resolve(existing *T) *T {
	if !o.Present {
		return existing
	}
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Get returns the value and whether a non-null value is present.
func (o Opt[T]) Get() (T, bool) {
	var zero T
	if !o.Present || o.Null {
		return zero, false
	}
	return o.Value, true
}
