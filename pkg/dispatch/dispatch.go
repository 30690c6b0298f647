// Package dispatch picks a query.Reader from a raw HTTP response by
// inspecting Content-Type (spec.md §4.9).
package dispatch

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/codec"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/query"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/request"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/stream"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// Response is the transport-agnostic surface Dispatch needs: the response
// headers and a readable body. Any HTTP client can satisfy this by
// wrapping its own response type (pkg/httptransport does so for
// fasthttp).
type Response struct {
	URL         string
	ContentType string
	Body        io.Reader
}

// Dispatch builds the right query.Reader for resp, per spec.md §4.9:
//  1. a streaming Content-Type gets the event-pipeline streaming reader;
//  2. anything else is read fully, JSON-parsed (empty body treated as
//     "{}"), and handed to the buffered reader;
//  3. any read or parse failure surfaces as SERVICE_UNAVAILABLE carrying
//     the requested URL.
func Dispatch(resp Response, c *codec.Codec) (query.Reader, error) {
	if isStreaming(resp.ContentType) {
		events := stream.NewEventReader(resp.Body)
		return query.NewStreamingReader(events, c), nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.ServiceUnavailableErr(resp.URL, err)
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	var doc wire.ResponseDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierr.ServiceUnavailableErr(resp.URL, err)
	}
	return query.NewBufferedReader(&doc, c), nil
}

// isStreaming reports whether contentType names the streaming media type,
// ignoring any parameters appended after ';' (e.g. ";version=1.0").
func isStreaming(contentType string) bool {
	base := contentType
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = base[:i]
	}
	streamingBase := request.ContentTypeStreaming
	if i := strings.IndexByte(streamingBase, ';'); i >= 0 {
		streamingBase = streamingBase[:i]
	}
	return strings.TrimSpace(base) == streamingBase
}
