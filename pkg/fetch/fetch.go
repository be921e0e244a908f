// Package fetch retrieves remote sources given as http(s) URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

var (
	// ErrUnexpectedStatus is returned when the remote end does not answer 200 OK
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrRequest is returned when the request could not be completed
	ErrRequest = errors.New("HTTP request failed")
)

// DefaultTimeout for a single fetch
const DefaultTimeout = 30 * time.Second

// Fetcher knows how to retrieve bytes from a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// IsRemote tells if a source must be fetched rather than read from the local filesystem
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Option for the HTTP fetcher
type Option func(*HTTP)

// Client sets the HTTP client. Its transport is wrapped for tracing.
func Client(c *http.Client) Option {
	return func(h *HTTP) {
		if c == nil {
			return
		}
		cc := *c
		if _, traced := cc.Transport.(*nethttp.Transport); !traced {
			rt := cc.Transport
			if rt == nil {
				rt = http.DefaultTransport
			}
			cc.Transport = &nethttp.Transport{RoundTripper: rt}
		}
		h.client = &cc
	}
}

// Tracer sets the tracer used for outgoing requests
func Tracer(tr opentracing.Tracer) Option {
	return func(h *HTTP) {
		if tr != nil {
			h.tr = tr
		}
	}
}

// Logger for the fetcher
func Logger(l *zap.Logger) Option {
	return func(h *HTTP) {
		if l != nil {
			h.l = l
		}
	}
}

// HTTP fetcher: a single GET, only a 200 OK answer is accepted.
type HTTP struct {
	client *http.Client
	tr     opentracing.Tracer
	l      *zap.Logger
}

// New HTTP fetcher
func New(opts ...Option) *HTTP {
	h := &HTTP{
		client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: &nethttp.Transport{},
		},
		tr: opentracing.NoopTracer{},
		l:  zap.NewNop(),
	}
	for _, apply := range opts {
		apply(h)
	}
	return h
}

// Fetch the content at some URL
func (h *HTTP) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrRequest.Wrap(err)
	}
	req, ht := nethttp.TraceRequest(h.tr, req, nethttp.OperationName("fetch"))
	defer ht.Finish()

	h.l.Debug("fetching", zap.String("url", url))
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ErrRequest.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrUnexpectedStatus.Wrap(fmt.Errorf("GET %s: %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrRequest.Wrap(err)
	}
	return data, nil
}
