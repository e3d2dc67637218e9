package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// TokenSource yields the bearer token for outgoing requests. An empty string
// means the request goes out unauthenticated.
type TokenSource func(ctx context.Context) string

// Client wraps the upstream trading API. Every method returns an Envelope;
// transport failures are normalized into synthetic envelopes so callers
// handle exactly one shape.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, token TokenSource, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		logger:     logger,
	}
}

// Get issues a GET request with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) Envelope {
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return errorEnvelope(CodeNetwork, GenericMessage)
	}
	return c.do(req)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) Envelope {
	payload, err := json.Marshal(body)
	if err != nil {
		return errorEnvelope(CodeNetwork, GenericMessage)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errorEnvelope(CodeNetwork, GenericMessage)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// FormFile names one file part of a multipart POST.
type FormFile struct {
	Field    string
	Name     string
	Contents io.Reader
}

// PostForm issues a multipart POST for file-style payloads.
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, files ...FormFile) Envelope {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return errorEnvelope(CodeNetwork, GenericMessage)
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return errorEnvelope(CodeNetwork, GenericMessage)
		}
		if _, err := io.Copy(part, f.Contents); err != nil {
			return errorEnvelope(CodeNetwork, GenericMessage)
		}
	}
	if err := writer.Close(); err != nil {
		return errorEnvelope(CodeNetwork, GenericMessage)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return errorEnvelope(CodeNetwork, GenericMessage)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) Envelope {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return errorEnvelope(CodeNetwork, GenericMessage)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) Envelope {
	if c.token != nil {
		if token := c.token(req.Context()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.normalizeTransportError(req, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorEnvelope(CodeNetwork, GenericMessage)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Code == 0 {
		// Non-envelope body: carry the HTTP status through.
		message := strings.TrimSpace(string(raw))
		if message == "" {
			message = resp.Status
		}
		return errorEnvelope(resp.StatusCode, message)
	}
	return env
}

// normalizeTransportError maps request failures where no response arrived
// into the synthetic envelope codes.
func (c *Client) normalizeTransportError(req *http.Request, err error) Envelope {
	c.logger.Warn("upstream request failed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Any("error", err))
	if isOffline(err) {
		return errorEnvelope(CodeOffline, OfflineMessage)
	}
	return errorEnvelope(CodeNetwork, GenericMessage)
}

func isOffline(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.ENETDOWN) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}

// EntityPath joins an entity base path with an operation and optional id.
func EntityPath(base, op string, id int64) string {
	if id > 0 {
		return fmt.Sprintf("%s/%s/%d", base, op, id)
	}
	return base + "/" + op
}
