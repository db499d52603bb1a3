package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// TokenSource yields the current bearer token, if any. The session store
// implements it; requests without a token are sent unauthenticated and the
// server decides whether to reject them.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

func New(cfg Config, httpClient *http.Client, tokens TokenSource) *Client {
	var limiter *rate.Limiter
	if cfg.Every > 0 && cfg.Burst > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Every.Duration()), cfg.Burst)
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		tokens:     tokens,
		limiter:    limiter,
	}
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
}

// Do performs a single JSON request against the configured base URL. body
// and out may be nil. There are no automatic retries; every retry in this
// client is user-initiated.
func (c *Client) Do(ctx context.Context, method string, path string, body any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Kind: ErrorKindNetwork, cause: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout.Duration())
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return &Error{Kind: ErrorKindParse, cause: fmt.Errorf("failed to encode request body: %w", err)}
		}
		bodyReader = buf
	}

	rq, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.cfg.BaseURL, "/")+path, bodyReader)
	if err != nil {
		return &Error{Kind: ErrorKindNetwork, cause: fmt.Errorf("failed to create request: %w", err)}
	}

	rq.Header.Set("Content-Type", "application/json")
	rq.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			rq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	rs, err := c.httpClient.Do(rq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Kind: ErrorKindTimeout, cause: err}
		}
		return &Error{Kind: ErrorKindNetwork, cause: fmt.Errorf("failed to send request: %w", err)}
	}
	defer rs.Body.Close()

	if rs.StatusCode >= 400 {
		return c.statusError(rs)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, rs.Body)
		return nil
	}

	logBuf := &bytes.Buffer{}
	bodyTee := io.TeeReader(rs.Body, logBuf)
	if err = json.NewDecoder(bodyTee).Decode(out); err != nil {
		return &Error{
			Kind:   ErrorKindParse,
			Status: rs.StatusCode,
			cause:  fmt.Errorf("failed to decode response: %q: %w", logBuf.String(), err),
		}
	}
	return nil
}

func (c *Client) statusError(rs *http.Response) error {
	kind := ErrorKindHTTP4xx
	if rs.StatusCode >= 500 {
		kind = ErrorKindHTTP5xx
	}

	// The API reports failures as {"error": "..."}; some handlers use
	// {"message": "..."} instead. Either one beats the generic message.
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(rs.Body)
	_ = json.Unmarshal(data, &body)

	message := body.Error
	if message == "" {
		message = body.Message
	}
	return &Error{Kind: kind, Status: rs.StatusCode, Message: message}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodDelete, path, body, out)
}
