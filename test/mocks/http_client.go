package mocks

import (
	"bytes"
	"io"
	"net/http"
)

// RoundTripFunc allows us to easily mock HTTP responses
type RoundTripFunc func(req *http.Request) *http.Response

// RoundTrip implements the http.RoundTripper interface
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewHTTPClientMock creates a new HTTP client with a mock transport
func NewHTTPClientMock(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

// NewHTTPResponse creates a new HTTP response with specified status code and body
func NewHTTPResponse(statusCode int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

// HTTPClientWithStatusMock returns a mock HTTP client that returns the given status code
func HTTPClientWithStatusMock(status int, body []byte) *http.Client {
	return NewHTTPClientMock(func(req *http.Request) *http.Response {
		return NewHTTPResponse(status, body)
	})
}

// RecordingTransport captures every request it serves so tests can assert on
// call counts, ordering, and request shape.
type RecordingTransport struct {
	Requests []*http.Request
	Bodies   []string
	Respond  func(req *http.Request) *http.Response
}

// RoundTrip implements the http.RoundTripper interface
func (t *RecordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.Requests = append(t.Requests, req)

	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		t.Bodies = append(t.Bodies, string(b))
	} else {
		t.Bodies = append(t.Bodies, "")
	}

	return t.Respond(req), nil
}

// NewRecordingClient returns a recording transport and a client using it.
func NewRecordingClient(respond func(req *http.Request) *http.Response) (*RecordingTransport, *http.Client) {
	rt := &RecordingTransport{Respond: respond}

	return rt, &http.Client{Transport: rt}
}
