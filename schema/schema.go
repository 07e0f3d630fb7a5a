package schema

import "encoding/json"

// Schema is the contract for typed agent and tool payloads. Every payload
// knows how to render itself as prompt text.
type Schema interface {
	String() string
}

// Stringify renders a schema for prompt embedding. String payloads are
// passed through verbatim, anything else is serialized as compact JSON so
// the model always sees one canonical representation.
func Stringify(s Schema) string {
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ToBytes returns the serialized form of a schema.
func ToBytes(s Schema) []byte {
	if v, ok := s.(String); ok {
		return []byte(v)
	}
	bs, _ := json.Marshal(s)
	return bs
}
