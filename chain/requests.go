package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 512
)

// Requester issues JSON requests with an independent timeout per call.
type Requester struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
}

func NewRequester(client *http.Client, timeout time.Duration, userAgent string) *Requester {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Requester{Client: client, Timeout: timeout, UserAgent: userAgent}
}

// GetJSON fetches url and decodes the body into result. endpoint is the
// request path reported in errors.
func (r *Requester) GetJSON(ctx context.Context, endpoint string, url string, result interface{}) error {
	body, err := r.Do(ctx, endpoint, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return DecodeJSON(endpoint, body, result)
}

// PostJSON posts payload as JSON and returns the raw response body.
func (r *Requester) PostJSON(ctx context.Context, endpoint string, url string, payload interface{}) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return r.Do(ctx, endpoint, http.MethodPost, url, b)
}

// Do performs one request and classifies failures into the chain error
// taxonomy. Non-2xx responses are returned as a RequestError carrying the
// status code, with Kind ErrNotFound for 404.
func (r *Requester) Do(ctx context.Context, endpoint string, method string, url string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Kind: ErrEndpointUnavailable, Cause: fmt.Errorf("error creating new request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Kind: classifyTransportError(ctx, err), Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Kind: classifyTransportError(ctx, err), Cause: fmt.Errorf("read response body: %w", err)}
	}

	if err := checkResponseErrorCode(endpoint, resp, body); err != nil {
		return body, err
	}

	return body, nil
}

func DecodeJSON(endpoint string, body []byte, result interface{}) error {
	if err := json.Unmarshal(body, result); err != nil {
		return &RequestError{Endpoint: endpoint, Kind: ErrMalformedResponse, Cause: err}
	}
	return nil
}

func checkResponseErrorCode(endpoint string, resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	kind := ErrEndpointUnavailable
	if resp.StatusCode == http.StatusNotFound {
		kind = ErrNotFound
	}

	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorBodyLen {
		snippet = snippet[:maxErrorBodyLen]
	}

	return &RequestError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Kind:       kind,
		Cause:      fmt.Errorf("status %s body %s", resp.Status, snippet),
	}
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrRequestTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrRequestTimeout
	}
	return ErrEndpointUnavailable
}

// StatusCodeOf returns the HTTP status recorded on err, or 0.
func StatusCodeOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
