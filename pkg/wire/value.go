// Package wire is the JSON-facing model of the protocol: the tagged
// `{$type, _value}` value shape, the streaming `$event`/`_body` envelope,
// and the buffered response document. It deliberately stays thin — (Un)
// marshaling and shape validation only — leaving the actual scalar parsing
// and tree-shaped decoding to pkg/scalars and pkg/codec.
package wire

import (
	"encoding/json"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
)

//go:generate easyjson -all

// Tag is one of the closed set of wire type discriminators (spec.md §3).
type Tag string

const (
	TagNull           Tag = "Null"
	TagBoolean        Tag = "Boolean"
	TagInteger        Tag = "Integer"
	TagFloat          Tag = "Float"
	TagString         Tag = "String"
	TagTime           Tag = "Time"
	TagDate           Tag = "Date"
	TagLocalTime      Tag = "LocalTime"
	TagZonedDateTime  Tag = "ZonedDateTime"
	TagOffsetDateTime Tag = "OffsetDateTime"
	TagLocalDateTime  Tag = "LocalDateTime"
	TagDuration       Tag = "Duration"
	TagPoint          Tag = "Point"
	TagBase64         Tag = "Base64"
	TagMap            Tag = "Map"
	TagList           Tag = "List"
	TagNode           Tag = "Node"
	TagRelationship   Tag = "Relationship"
	TagPath           Tag = "Path"
)

// Value is one tagged wire value: a type tag plus its still-encoded `_value`
// payload. The payload is left as raw JSON here; pkg/codec dispatches on Type
// to decide how to further parse Raw (scalar string, nested map/list of
// Values, or a Node/Relationship/Path payload).
type Value struct {
	Type Tag
	Raw  json.RawMessage
}

// MarshalJSON writes `{"$type":"...","_value":...}` directly into a
// pre-sized buffer rather than through encoding/json's reflection path,
// kept here so the package builds without running the easyjson generator.
func (v Value) MarshalJSON() ([]byte, error) {
	raw := v.Raw
	if raw == nil {
		raw = []byte("null")
	}
	buf := make([]byte, 0, len(raw)+len(v.Type)+24)
	buf = append(buf, `{"$type":"`...)
	buf = append(buf, v.Type...)
	buf = append(buf, `","_value":`...)
	buf = append(buf, raw...)
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON parses `{"$type":"...","_value":...}`. Any other shape is a
// protocol error.
func (v *Value) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type Tag             `json:"$type"`
		Val  json.RawMessage `json:"_value"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return apierr.ProtocolWrap(err, "malformed tagged value")
	}
	if aux.Type == "" {
		return apierr.Protocol("tagged value missing $type")
	}
	v.Type = aux.Type
	v.Raw = aux.Val
	return nil
}

// String unquotes a scalar string payload (used for Integer, Float,
// temporals, Duration, Point, Base64, String).
func (v Value) String() (string, error) {
	var s string
	if err := json.Unmarshal(v.Raw, &s); err != nil {
		return "", apierr.ProtocolWrap(err, "%s payload is not a string", v.Type)
	}
	return s, nil
}

// Bool unwraps a Boolean payload.
func (v Value) Bool() (bool, error) {
	var b bool
	if err := json.Unmarshal(v.Raw, &b); err != nil {
		return false, apierr.ProtocolWrap(err, "Boolean payload is not a bool")
	}
	return b, nil
}

// Map unwraps a Map payload into its member tagged values (own keys only —
// json.Unmarshal into a Go map already does this). The JSON key order is
// not kept.
func (v Value) Map() (map[string]Value, error) {
	m := map[string]Value{}
	if err := json.Unmarshal(v.Raw, &m); err != nil {
		return nil, apierr.ProtocolWrap(err, "Map payload is malformed")
	}
	return m, nil
}

// List unwraps a List payload into its member tagged values.
func (v Value) List() ([]Value, error) {
	var l []Value
	if err := json.Unmarshal(v.Raw, &l); err != nil {
		return nil, apierr.ProtocolWrap(err, "List payload is malformed")
	}
	return l, nil
}

// NodePayload unwraps a Node payload.
func (v Value) NodePayload() (NodePayload, error) {
	var n NodePayload
	if err := json.Unmarshal(v.Raw, &n); err != nil {
		return NodePayload{}, apierr.ProtocolWrap(err, "Node payload is malformed")
	}
	return n, nil
}

// RelationshipPayload unwraps a Relationship payload.
func (v Value) RelationshipPayload() (RelationshipPayload, error) {
	var r RelationshipPayload
	if err := json.Unmarshal(v.Raw, &r); err != nil {
		return RelationshipPayload{}, apierr.ProtocolWrap(err, "Relationship payload is malformed")
	}
	return r, nil
}

// PathPayload unwraps a Path payload: the alternating N0,R0,N1,... sequence.
func (v Value) PathPayload() ([]Value, error) {
	var p []Value
	if err := json.Unmarshal(v.Raw, &p); err != nil {
		return nil, apierr.ProtocolWrap(err, "Path payload is malformed")
	}
	return p, nil
}

// NodePayload is the wire shape of a Node's `_value` (spec.md §3).
type NodePayload struct {
	ElementID  string           `json:"element_id"`
	Labels     []string         `json:"labels"`
	Properties map[string]Value `json:"properties,omitempty"`
}

// RelationshipPayload is the wire shape of a Relationship's `_value`.
type RelationshipPayload struct {
	ElementID      string           `json:"element_id"`
	StartElementID string           `json:"start_node_element_id"`
	EndElementID   string           `json:"end_node_element_id"`
	Type           string           `json:"type"`
	Properties     map[string]Value `json:"properties,omitempty"`
}
