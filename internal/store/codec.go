package store

import "encoding/json/v2"

// Encode serializes a value into its stored blob form.
func Encode[T any](value T) ([]byte, error) {
	return json.Marshal(value)
}

// Decode parses a stored blob. Failures are reported as *CorruptStateError.
func Decode[T any](key string, blob []byte) (T, error) {
	var value T
	if err := json.Unmarshal(blob, &value); err != nil {
		var zero T
		return zero, &CorruptStateError{Key: key, Err: err}
	}
	return value, nil
}
