package nodeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// The node exposes a single endpoint; every call is selected by the
// requestType parameter rather than the path.
const requestTypeParam = "requestType"

// Fixed client identifier attached to every request.
const (
	clientHeader = "X-Client-Id"
	clientName   = "chainvault/1"
)

// Params is the named-parameter set of one node request.
type Params map[string]string

// TransportError is returned for any network failure or non-2xx node
// response. The node's business-level errors arrive inside a 200 body
// and are not transport errors.
type TransportError struct {
	Verb        string
	RequestType string
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("node request %s %s failed: %v", e.Verb, e.RequestType, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client issues requests against a single node endpoint. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a transport bound to one node endpoint URL
// (e.g. "http://localhost:7876/nxt").
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

// Get issues a read request. All parameters travel as query fields.
func (c *Client) Get(ctx context.Context, requestType string, params Params) ([]byte, error) {
	return c.do(ctx, http.MethodGet, requestType, params)
}

// Post issues a write request. The node accepts parameters only as
// query-style fields, even for state-mutating calls, so these are
// encoded exactly like Get parameters -- never as a structured body.
func (c *Client) Post(ctx context.Context, requestType string, params Params) ([]byte, error) {
	return c.do(ctx, http.MethodPost, requestType, params)
}

func (c *Client) do(ctx context.Context, verb, requestType string, params Params) ([]byte, error) {
	values := url.Values{}
	values.Set(requestTypeParam, requestType)
	for k, v := range params {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, verb, c.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Verb: verb, RequestType: requestType, Err: err}
	}
	req.Header.Set(clientHeader, clientName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Verb: verb, RequestType: requestType, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Verb: verb, RequestType: requestType, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Verb:        verb,
			RequestType: requestType,
			Err:         fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body),
		}
	}
	return body, nil
}
