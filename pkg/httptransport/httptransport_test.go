package httptransport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/request"
)

func TestFastHTTPDoer_RoundTrip(t *testing.T) {
	var gotAuth, gotAccept, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/vnd.neo4j.query")
		w.Write([]byte(`{"data":{"fields":["a"],"values":[]}}`))
	}))
	defer srv.Close()

	enc := request.NewEncoder("tok", "RETURN 1", nil, request.Config{}, nil)
	d := NewFastHTTPDoer(5 * time.Second)
	resp, err := d.Do(context.Background(), srv.URL, enc)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotAccept != request.Accept {
		t.Fatalf("Accept = %q", gotAccept)
	}
	if gotContentType != request.ContentTypeBuffered {
		t.Fatalf("Content-Type = %q", gotContentType)
	}
	if len(gotBody) == 0 {
		t.Fatal("expected non-empty request body")
	}
	if resp.ContentType != "application/vnd.neo4j.query" {
		t.Fatalf("response ContentType = %q", resp.ContentType)
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil || len(out) == 0 {
		t.Fatalf("response Body read = %v, %v", out, err)
	}
}

func TestFastHTTPDoer_TransportFailure(t *testing.T) {
	enc := request.NewEncoder("tok", "RETURN 1", nil, request.Config{}, nil)
	d := NewFastHTTPDoer(100 * time.Millisecond)
	_, err := d.Do(context.Background(), "http://127.0.0.1:1/unreachable", enc)
	if err == nil {
		t.Fatal("expected transport error for unreachable host")
	}
}
