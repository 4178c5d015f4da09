package codec

import json "github.com/goccy/go-json"

// Serialization boundary: values enter and leave the cache as JSON bytes.
// The store itself stays payload-agnostic; typed access happens at the
// call site via the generic helpers in the root package.

// Marshal serializes a value for storage. The length of the returned slice
// is what capacity accounting uses (before compression/encryption adjust it).
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes stored bytes into out.
func Unmarshal(data []byte, out any) error {
	return json.Unmarshal(data, out)
}
