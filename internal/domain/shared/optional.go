package shared

import (
	"bytes"
	"encoding/json"
)

// Optional marks a field as present or absent in a partial update.
// An absent Optional leaves the target field untouched.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsPresent reports whether a value was supplied
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// Get returns the value and whether it was supplied
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// OrElse returns the value if present, otherwise fallback
func (o Optional[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// ApplyTo overwrites *dst when the value is present
func (o Optional[T]) ApplyTo(dst *T) {
	if o.present {
		*dst = o.value
	}
}

// UnmarshalJSON marks the Optional present for any non-null JSON value.
// Omitted keys never reach this method and stay absent; explicit null is also absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalJSON encodes the value, or null when absent
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
