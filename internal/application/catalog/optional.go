package catalog

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Optional is a JSON field that tells an absent key apart from an explicit
// null. Set is false when the key was missing; Null is true for null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional holding JSON null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes null for absent and null values
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}

// IsZero lets `json:",omitzero"` drop absent fields
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// HasValue reports whether the key was present with a non-null value
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}
