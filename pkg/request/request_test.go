package request

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncoder_ContentTypeAndAccept(t *testing.T) {
	e := NewEncoder("tok", "RETURN 1", nil, Config{}, nil)
	if e.ContentType() != ContentTypeBuffered {
		t.Fatalf("ContentType = %q", e.ContentType())
	}
	accept := e.AcceptHeader()
	if !strings.HasPrefix(accept, ContentTypeStreaming) {
		t.Fatalf("Accept should prefer streaming first, got %q", accept)
	}
	if !strings.Contains(accept, ContentTypeBuffered) || !strings.Contains(accept, ContentTypeGeneric) {
		t.Fatalf("Accept missing a media type: %q", accept)
	}
}

func TestEncoder_Authorization(t *testing.T) {
	e := NewEncoder("secret", "RETURN 1", nil, Config{}, nil)
	auth, err := e.Authorization()
	if err != nil {
		t.Fatalf("Authorization: %v", err)
	}
	if auth != "Bearer secret" {
		t.Fatalf("Authorization = %q", auth)
	}

	e2 := NewEncoder("secret", "RETURN 1", nil, Config{}, BasicAuthEncoder{Username: "neo4j"})
	auth2, err := e2.Authorization()
	if err != nil {
		t.Fatalf("Authorization: %v", err)
	}
	if !strings.HasPrefix(auth2, "Basic ") {
		t.Fatalf("Authorization = %q", auth2)
	}
}

func TestEncoder_BodyOmitsEmptyParameters(t *testing.T) {
	e := NewEncoder("tok", "RETURN 1", nil, Config{}, nil)
	body, err := e.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := m["parameters"]; ok {
		t.Fatalf("parameters should be omitted, got %v", m["parameters"])
	}
	if m["statement"] != "RETURN 1" {
		t.Fatalf("statement = %v", m["statement"])
	}
	if m["includeCounters"] != true {
		t.Fatalf("includeCounters = %v", m["includeCounters"])
	}
}

func TestEncoder_BodyEncodesParameters(t *testing.T) {
	// spec.md §8 scenario 1, passed as the parameter map.
	params := map[string]any{
		"n": 42.0,
		"s": "hi",
		"b": []byte{1, 2, 3},
	}
	e := NewEncoder("tok", "RETURN $n, $s, $b", params, Config{}, nil)
	body, err := e.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	var ps map[string]struct {
		Type  string `json:"$type"`
		Value string `json:"_value"`
	}
	if err := json.Unmarshal(m["parameters"], &ps); err != nil {
		t.Fatalf("Unmarshal parameters: %v", err)
	}
	if ps["n"].Type != "Float" || ps["n"].Value != "42" {
		t.Fatalf("n = %+v", ps["n"])
	}
	if ps["s"].Type != "String" || ps["s"].Value != "hi" {
		t.Fatalf("s = %+v", ps["s"])
	}
	if ps["b"].Type != "Base64" || ps["b"].Value != "AQID" {
		t.Fatalf("b = %+v", ps["b"])
	}
}

func TestEncoder_BodyCachesResult(t *testing.T) {
	e := NewEncoder("tok", "RETURN 1", map[string]any{"x": int64(1)}, Config{}, nil)
	b1, err := e.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	b2, err := e.Body()
	if err != nil {
		t.Fatalf("Body (2nd): %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("Body not cached: %s vs %s", b1, b2)
	}
}

func TestEncoder_BodyIncludesTxEnvelope(t *testing.T) {
	e := NewEncoder("tok", "RETURN 1", nil, Config{
		TxConfig: &TxConfig{
			Bookmarks:        []string{"bm1", "bm2"},
			Mode:             "r",
			ImpersonatedUser: "alice",
			TimeoutMillis:    5000,
		},
	}, nil)
	body, err := e.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	bms, _ := m["bookmarks"].([]any)
	if len(bms) != 2 || bms[0] != "bm1" {
		t.Fatalf("bookmarks = %v", m["bookmarks"])
	}
	if m["accessMode"] != "r" {
		t.Fatalf("accessMode = %v", m["accessMode"])
	}
	if m["impersonatedUser"] != "alice" {
		t.Fatalf("impersonatedUser = %v", m["impersonatedUser"])
	}
}

func TestEncoder_BodyRejectsUnsupportedParameter(t *testing.T) {
	e := NewEncoder("tok", "RETURN $n", map[string]any{"n": struct{}{}}, Config{}, nil)
	if _, err := e.Body(); err == nil {
		t.Fatal("expected error encoding unsupported parameter type")
	}
}
