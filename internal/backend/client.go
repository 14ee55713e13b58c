// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend is the console's only path to the Toorrii REST API.
// Every call carries the caller's bearer token from the request context,
// maps failures to *Error values, and reports rejected credentials on the
// event bus so the auth gate can end the session.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"toorrii/internal/events"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 15 * time.Second

// Sentinel errors matched with errors.Is against an *Error.
var (
	ErrUnauthorized = errors.New("authentication failed")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrNotFound     = errors.New("not found")
)

// Error is a failed backend call. Status is 0 when no response arrived.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the text to show an administrator for err.
func UserMessage(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	if err == nil {
		return ""
	}
	return "Unexpected error. Please try again."
}

type ctxKey int

const credentialsKey ctxKey = 0

// Credentials identify the session a backend call is made for.
type Credentials struct {
	SessionID   string
	AccessToken string
}

// WithCredentials returns a context whose backend calls authenticate with
// accessToken on behalf of session sessionID.
func WithCredentials(ctx context.Context, sessionID, accessToken string) context.Context {
	return context.WithValue(ctx, credentialsKey, Credentials{SessionID: sessionID, AccessToken: accessToken})
}

// CredentialsFrom returns the credentials stored in ctx, if any.
func CredentialsFrom(ctx context.Context) Credentials {
	c, _ := ctx.Value(credentialsKey).(Credentials)
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithNetworkFailureAsAuth makes transport failures also raise
// events.AuthExpired, ending the session as a rejected token would.
func WithNetworkFailureAsAuth(enabled bool) Option {
	return func(c *Client) { c.networkAsAuth = enabled }
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		base := c.http.BaseURL
		c.http = newResty(resty.NewWithClient(hc), base)
	}
}

// Client sends JSON requests to the backend. It never retries.
type Client struct {
	http          *resty.Client
	bus           events.Publisher
	networkAsAuth bool
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, bus events.Publisher, opts ...Option) *Client {
	if bus == nil {
		bus = events.Discard
	}
	c := &Client{
		http: newResty(resty.New(), strings.TrimRight(baseURL, "/")),
		bus:  bus,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newResty(r *resty.Client, baseURL string) *resty.Client {
	return r.
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// call describes one backend request.
type call struct {
	method     string
	path       string
	pathParams map[string]string
	query      map[string]string
	body       any
	// fallback is the message used when the backend sends none.
	fallback string
	// anonymous calls send no bearer token.
	anonymous bool
	// quiet calls never raise the auth signal.
	quiet bool
}

// send executes cl and returns the raw 2xx body.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	creds := CredentialsFrom(ctx)

	req := c.http.R().SetContext(ctx)
	if creds.AccessToken != "" && !cl.anonymous {
		req.SetAuthToken(creds.AccessToken)
	}
	if cl.pathParams != nil {
		req.SetPathParams(cl.pathParams)
	}
	if cl.query != nil {
		req.SetQueryParams(cl.query)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Message: cl.fallback, Err: ctx.Err()}
		}
		slog.Warn("backend unreachable", "method", cl.method, "path", cl.path, "error", err)
		if c.networkAsAuth && !cl.quiet {
			c.bus.Publish(ctx, events.AuthExpired{SessionID: creds.SessionID})
		}
		return nil, &Error{Message: cl.fallback, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	status := resp.StatusCode()
	slog.Debug("backend request",
		"method", cl.method,
		"path", cl.path,
		"status", status,
		"duration", time.Since(start).String(),
	)

	switch {
	case resp.IsSuccess():
		return resp.Body(), nil
	case (status == http.StatusUnauthorized || status == http.StatusForbidden) && !cl.quiet:
		slog.Warn("backend rejected credentials", "method", cl.method, "path", cl.path, "status", status)
		c.bus.Publish(ctx, events.AuthExpired{SessionID: creds.SessionID, Status: status})
		return nil, &Error{Status: status, Message: backendMessage(resp.Body(), "Authentication failed"), Err: ErrUnauthorized}
	}

	e := &Error{Status: status, Message: backendMessage(resp.Body(), cl.fallback)}
	switch status {
	case http.StatusNotFound:
		e.Err = ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = ErrUnauthorized
	}
	slog.Warn("backend error", "method", cl.method, "path", cl.path, "status", status, "message", e.Message)
	return nil, e
}

// backendMessage extracts the "message" field of an error body.
func backendMessage(body []byte, fallback string) string {
	if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && strings.TrimSpace(msg.Str) != "" {
		return msg.Str
	}
	return fallback
}

// decodeOne decodes a single-record response.
func decodeOne[T any](body []byte) (T, error) {
	var out T
	if len(strings.TrimSpace(string(body))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// decodeList decodes a list response. A bare object is treated as a
// one-element list; an empty or null body as an empty one.
func decodeList[T any](body []byte) ([]T, error) {
	res := gjson.ParseBytes(body)
	switch {
	case res.IsArray():
		var out []T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	case res.IsObject():
		one, err := decodeOne[T](body)
		if err != nil {
			return nil, err
		}
		return []T{one}, nil
	}
	return nil, nil
}
