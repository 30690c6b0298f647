package request

import (
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/codec"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// Media types, shared with pkg/dispatch (spec.md §6 "Media types").
const (
	ContentTypeBuffered  = "application/vnd.neo4j.query"
	ContentTypeStreaming = "application/vnd.neo4j.query+jsonl;version=1.0"
	ContentTypeGeneric   = "application/json"
)

// Accept is the fixed preference list: streaming first, then buffered,
// then a generic JSON fallback (spec.md §4.8 "the streaming form is
// preferred").
const Accept = ContentTypeStreaming + ", " + ContentTypeBuffered + ", " + ContentTypeGeneric

// Encoder builds one request's Content-Type, Accept, Authorization, and
// Body. Body is assembled lazily and cached on first access (spec.md §4.8
// "built lazily and cached").
type Encoder struct {
	Token      string
	Statement  string
	Parameters map[string]any
	Config     Config
	Auth       AuthEncoder

	once    sync.Once
	body    []byte
	bodyErr error
}

// NewEncoder constructs an Encoder. auth defaults to BearerAuthEncoder
// when nil.
func NewEncoder(token, statement string, parameters map[string]any, cfg Config, auth AuthEncoder) *Encoder {
	if auth == nil {
		auth = BearerAuthEncoder{}
	}
	return &Encoder{Token: token, Statement: statement, Parameters: parameters, Config: cfg, Auth: auth}
}

// ContentType is the buffered media type, used as the request Content-Type
// header regardless of which reader the caller expects back (spec.md §4.8).
func (e *Encoder) ContentType() string {
	return ContentTypeBuffered
}

// AcceptHeader is the streaming/buffered/generic preference list.
func (e *Encoder) AcceptHeader() string {
	return Accept
}

// Authorization delegates to the configured AuthEncoder.
func (e *Encoder) Authorization() (string, error) {
	return e.Auth.Encode(e.Token)
}

// requestBody mirrors the wire shape of spec.md §6: statement,
// includeCounters, the flattened transaction envelope, and an optional
// parameters map.
type requestBody struct {
	Statement        string                `json:"statement"`
	IncludeCounters  bool                  `json:"includeCounters"`
	Bookmarks        []string              `json:"bookmarks,omitempty"`
	Mode             string                `json:"accessMode,omitempty"`
	ImpersonatedUser string                `json:"impersonatedUser,omitempty"`
	TimeoutMillis    int64                 `json:"txTimeout,omitempty"`
	Metadata         map[string]any        `json:"txMetadata,omitempty"`
	Parameters       map[string]wire.Value `json:"parameters,omitempty"`
}

// Body renders the request body, computing it once and caching the
// result (and any encode error) for subsequent calls.
func (e *Encoder) Body() ([]byte, error) {
	e.once.Do(func() {
		e.body, e.bodyErr = e.encodeBody()
	})
	return e.body, e.bodyErr
}

func (e *Encoder) encodeBody() ([]byte, error) {
	rb := requestBody{
		Statement:       e.Statement,
		IncludeCounters: true,
	}
	rb.Bookmarks = e.Config.Bookmarks
	rb.Mode = e.Config.Mode
	rb.ImpersonatedUser = e.Config.ImpersonatedUser
	if tc := e.Config.TxConfig; tc != nil {
		if len(tc.Bookmarks) > 0 {
			rb.Bookmarks = tc.Bookmarks
		}
		if tc.Mode != "" {
			rb.Mode = tc.Mode
		}
		if tc.ImpersonatedUser != "" {
			rb.ImpersonatedUser = tc.ImpersonatedUser
		}
		rb.TimeoutMillis = tc.TimeoutMillis
		rb.Metadata = tc.Metadata
	}

	// parameters is omitted when the input map is absent or empty
	// (spec.md §4.8).
	if len(e.Parameters) > 0 {
		params := make(map[string]wire.Value, len(e.Parameters))
		for k, v := range e.Parameters {
			ev, err := codec.EncodeValue(v)
			if err != nil {
				return nil, apierr.ProtocolWrap(err, "failed to encode parameter %q", k)
			}
			params[k] = ev
		}
		rb.Parameters = params
	}

	return json.Marshal(rb)
}

func basicAuthHeader(username, token string) string {
	raw := username + ":" + token
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}
