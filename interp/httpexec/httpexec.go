// Package httpexec implements the http effect family over net/http. It
// serializes JSON request bodies, performs the request, and hands the raw
// (optionally JSON-parsed) response body back to the dispatch loop without
// decoding it — result interpretation belongs to the command's decoder.
package httpexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pureloop/pureloop/effect"
)

// Options configure the HTTP interpreter.
type Options struct {
	// Client performs the requests. Defaults to a client with Timeout.
	Client *http.Client

	// Timeout applies to the default client only.
	Timeout time.Duration

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64
}

// Interpreter resolves effect.HTTP descriptors.
type Interpreter struct {
	client       *http.Client
	maxBodyBytes int64
}

// New constructs an HTTP interpreter. Defaults: 30s timeout, 4 MiB body cap.
func New(optFns ...func(o *Options)) *Interpreter {
	opts := Options{
		Timeout:      30 * time.Second,
		MaxBodyBytes: 4 << 20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Interpreter{client: client, maxBodyBytes: opts.MaxBodyBytes}
}

// Family implements interp.FamilyInterpreter.
func (*Interpreter) Family() string { return effect.FamilyHTTP }

// Execute performs the described request. For JSON effects the payload is
// serialized as the request body and the response body is parsed as JSON
// into map/slice/primitive values; otherwise the raw body is returned as a
// string. Non-2xx statuses resolve as errors carrying the status and body.
func (i *Interpreter) Execute(ctx context.Context, descriptor any) (any, error) {
	d, ok := descriptor.(effect.HTTP)
	if !ok {
		return nil, fmt.Errorf("httpexec: unexpected descriptor %T", descriptor)
	}

	var body io.Reader
	if d.Data != nil && d.JSON {
		encoded, err := json.Marshal(d.Data)
		if err != nil {
			return nil, fmt.Errorf("httpexec: encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, body)
	if err != nil {
		return nil, fmt.Errorf("httpexec: build request: %w", err)
	}
	if d.JSON {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpexec: %s %s: %w", d.Method, d.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, i.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("httpexec: read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("httpexec: %s %s: status %d: %s", d.Method, d.URL, resp.StatusCode, raw)
	}

	if !d.JSON || len(raw) == 0 {
		return string(raw), nil
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("httpexec: parse response body: %w", err)
	}
	return parsed, nil
}
