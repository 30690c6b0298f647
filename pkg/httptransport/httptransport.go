// Package httptransport provides an optional concrete Doer for issuing the
// request built by pkg/request and handing the raw response to
// pkg/dispatch. It is external to the core codec (spec.md §4.9 treats HTTP
// transport as an external collaborator) — nothing under pkg/dispatch or
// pkg/query imports this package.
package httptransport

import (
	"bytes"
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/dispatch"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/request"
)

// Doer issues one encoded request and returns a dispatch.Response.
type Doer interface {
	Do(ctx context.Context, url string, enc *request.Encoder) (dispatch.Response, error)
}

// FastHTTPDoer is a Doer backed by a shared fasthttp.Client. The teacher
// depends on fasthttp only transitively, through a server framework; here
// it is used the client-side way, the direction this spec actually needs.
type FastHTTPDoer struct {
	Client  *fasthttp.Client
	Timeout time.Duration
}

// NewFastHTTPDoer builds a FastHTTPDoer with a fresh fasthttp.Client.
func NewFastHTTPDoer(timeout time.Duration) *FastHTTPDoer {
	return &FastHTTPDoer{Client: &fasthttp.Client{}, Timeout: timeout}
}

// Do POSTs the encoder's body to url and returns the response wrapped for
// pkg/dispatch. The response body is copied into memory before the
// fasthttp response is released back to its pool, since dispatch.Response
// outlives the call.
func (d *FastHTTPDoer) Do(ctx context.Context, url string, enc *request.Encoder) (dispatch.Response, error) {
	body, err := enc.Body()
	if err != nil {
		return dispatch.Response{}, err
	}
	auth, err := enc.Authorization()
	if err != nil {
		return dispatch.Response{}, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(enc.ContentType())
	req.Header.Set("Accept", enc.AcceptHeader())
	req.Header.Set("Authorization", auth)
	req.SetBody(body)

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}

	client := d.Client
	if client == nil {
		client = &fasthttp.Client{}
	}
	if err := client.DoTimeout(req, resp, timeout); err != nil {
		return dispatch.Response{}, apierr.ServiceUnavailableErr(url, err)
	}

	respBody := make([]byte, len(resp.Body()))
	copy(respBody, resp.Body())
	contentType := string(resp.Header.ContentType())

	return dispatch.Response{
		URL:         url,
		ContentType: contentType,
		Body:        bytes.NewReader(respBody),
	}, nil
}
