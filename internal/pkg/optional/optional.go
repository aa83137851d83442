// Package optional distinguishes a JSON field that was absent from one that
// was supplied, including supplied as null. Partial updates only apply fields
// whose value was present in the request body.
package optional

import "encoding/json"

type Field[T any] struct {
	Set   bool
	Value T
}

func Of[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: value}
}

// UnmarshalJSON is only invoked for keys present in the body, so Set records
// presence; null decodes into the zero value (nil for pointer T).
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
