// Package request builds the HTTP-facing parts of a Query API call: the
// request body, Content-Type, Accept preference list, and Authorization
// header (spec.md §4.8).
package request

// TxConfig carries the transaction-envelope fields a caller may set:
// bookmarks to wait on, access mode, impersonated user, and timeout. These
// come from an external collaborator on the wire (spec.md §6 "Wire
// envelopes") — the encoder only arranges them into the body, it does not
// interpret them.
type TxConfig struct {
	Bookmarks        []string
	Mode             string
	ImpersonatedUser string
	TimeoutMillis    int64
	Metadata         map[string]any
}

// Config is the optional per-request envelope accepted by Encoder.
type Config struct {
	Bookmarks        []string
	TxConfig         *TxConfig
	Mode             string
	ImpersonatedUser string
}

// AuthEncoder renders a caller-supplied auth token into the value of the
// Authorization header. It is an external collaborator (spec.md §4.8
// "authorization ... delegated to an external auth encoder") — this
// package has no opinion on the auth scheme.
type AuthEncoder interface {
	Encode(token string) (string, error)
}

// BasicAuthEncoder implements HTTP Basic auth, the scheme the Query API
// documents for username/password credentials.
type BasicAuthEncoder struct {
	Username string
}

// Encode renders "Basic base64(username:token)".
func (b BasicAuthEncoder) Encode(token string) (string, error) {
	return basicAuthHeader(b.Username, token), nil
}

// BearerAuthEncoder implements bearer-token auth.
type BearerAuthEncoder struct{}

// Encode renders "Bearer token".
func (BearerAuthEncoder) Encode(token string) (string, error) {
	return "Bearer " + token, nil
}
