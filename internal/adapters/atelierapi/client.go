// Package atelierapi is a client for the atelier HTTP API
//
// Its list sources plug straight into listing.Accessor: a Query becomes the
// size, order and cursor parameters of a list endpoint, with the cursor
// carried as the same opaque token the server mints. Every call is a single
// request; a failure goes back to the accessor, which shows it as an empty page
package atelierapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"atelier/internal/core/listing"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/logger"
	artdom "atelier/internal/services/api/art/domain"
	contentdom "atelier/internal/services/api/content/domain"
	usersdom "atelier/internal/services/api/users/domain"

	"github.com/google/go-querystring/query"
)

const (
	defaultTimeout = 10 * time.Second
	defaultUA      = "atelier-browse"
)

// Options configures the Client
type Options struct {
	// BaseURL includes the api prefix, e.g. http://localhost:8080/api/v1
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Token is an access JWT sent as a bearer token when set
	Token string
}

// Client talks to one API deployment
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("atelierapi"),
	}
}

// envelope mirrors the server's response body
type envelope struct {
	Code  perr.ErrorCode  `json:"code"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// listBody mirrors the data of a list response
type listBody[T any] struct {
	Items []T `json:"items"`
}

// Get fetches path with params and decodes the envelope data into out
// params may be nil or any struct go-querystring understands
func (c *Client) Get(ctx context.Context, path string, params any, out any) error {
	u := c.opts.BaseURL + path
	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "encode %s params", path)
		}
		if qs := v.Encode(); qs != "" {
			u += "?" + qs
		}
	}

	env, status, err := c.do(ctx, u)
	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "GET %s failed", path)
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return perr.Newf(perr.ErrorCodeUnavailable, "GET %s: server returned %d", path, status)
	case status >= 400:
		return statusError(path, status, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "decode %s", path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, u string) (envelope, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return envelope{}, 0, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return envelope{}, 0, err
	}
	if len(body) > 0 && json.Unmarshal(body, &env) != nil && resp.StatusCode < 400 {
		return envelope{}, resp.StatusCode, perr.Newf(perr.ErrorCodeJSON, "response is not an api envelope")
	}
	c.log.Debug().Str("url", u).Int("status", resp.StatusCode).Msg("atelierapi response")
	return env, resp.StatusCode, nil
}

// statusError rebuilds the server's error with its code when the envelope carried one
func statusError(path string, status int, env envelope) error {
	code := env.Code
	if code == 0 || perr.HTTPStatusCode(code) != status {
		code = codeOfStatus(status)
	}
	msg := env.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	return perr.Newf(code, "GET %s: %s", path, msg)
}

func codeOfStatus(status int) perr.ErrorCode {
	switch status {
	case http.StatusNotFound:
		return perr.ErrorCodeNotFound
	case http.StatusBadRequest:
		return perr.ErrorCodeValidation
	case http.StatusUnprocessableEntity:
		return perr.ErrorCodeInvalidArgument
	case http.StatusUnauthorized:
		return perr.ErrorCodeUnauthorized
	case http.StatusForbidden:
		return perr.ErrorCodeForbidden
	case http.StatusConflict:
		return perr.ErrorCodeConflict
	case http.StatusTooManyRequests:
		return perr.ErrorCodeTooManyRequests
	}
	return perr.ErrorCodeUnknown
}

// ListParams are the query parameters a Query turns into
type ListParams struct {
	Size   int    `url:"size,omitempty"`
	Order  string `url:"order,omitempty"`
	Dir    string `url:"dir,omitempty"`
	After  string `url:"after,omitempty"`
	Before string `url:"before,omitempty"`
}

// ParamsOf encodes q the way the server's list endpoints read it
// the token page number only feeds the server's own numbering, which the accessor ignores
func ParamsOf(q listing.Query) ListParams {
	p := ListParams{Size: q.Limit, Order: q.Order.Field, Dir: string(q.Order.Dir)}
	switch {
	case q.After != nil:
		p.After = listing.Token{Cursor: *q.After, Order: q.Order, Page: 1}.Encode()
	case q.Before != nil:
		p.Before = listing.Token{Cursor: *q.Before, Order: q.Order, Page: 1}.Encode()
	}
	return p
}

// Source returns a listing.Source over the list endpoint at path
func Source[T any](c *Client, path string) listing.Source[T] {
	return listing.SourceFunc[T](func(ctx context.Context, q listing.Query) ([]T, error) {
		var body listBody[T]
		if err := c.Get(ctx, path, ParamsOf(q), &body); err != nil {
			return nil, err
		}
		return body.Items, nil
	})
}

// Posts is the public content feed
func (c *Client) Posts() listing.Source[contentdom.Post] {
	return Source[contentdom.Post](c, "/content")
}

// Gallery is the public art gallery
func (c *Client) Gallery() listing.Source[artdom.Artwork] {
	return Source[artdom.Artwork](c, "/art")
}

// Users is the admin account list; it needs an admin access token
func (c *Client) Users() listing.Source[usersdom.User] {
	return Source[usersdom.User](c, "/users")
}

// Version fetches the server's build info as loose json
func (c *Client) Version(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.Get(ctx, "/meta/version", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Endpoint joins the base url and path, mostly for messages
func (c *Client) Endpoint(path string) string {
	u, err := url.JoinPath(c.opts.BaseURL, path)
	if err != nil {
		return c.opts.BaseURL + path
	}
	return u
}
