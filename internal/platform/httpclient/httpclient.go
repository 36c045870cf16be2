package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRetryWait = 200 * time.Millisecond

	maxErrorBody = 1 << 10
)

// Options de New. BaseURL vacío => solo se aceptan URLs absolutas.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Reintentos ante error de red o 5xx. 0 => sin reintentos.
	Retries   int
	RetryWait time.Duration

	// Headers fijos para todos los requests (p.ej. API key).
	Headers   map[string]string
	UserAgent string
}

// Client es un cliente JSON sobre resty para los adapters salientes.
type Client struct {
	r       *resty.Client
	baseURL string
}

func New(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	r := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	c := &Client{r: r}

	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		if _, err := url.ParseRequestURI(base); err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		c.baseURL = strings.TrimRight(base, "/")
		r.SetBaseURL(c.baseURL)
	}

	if opts.Retries > 0 {
		wait := opts.RetryWait
		if wait <= 0 {
			wait = DefaultRetryWait
		}
		r.SetRetryCount(opts.Retries).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(4 * wait).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				return err != nil || (resp != nil && resp.StatusCode() >= http.StatusInternalServerError)
			})
	}

	for k, v := range opts.Headers {
		if strings.TrimSpace(k) == "" || v == "" {
			continue
		}
		r.SetHeader(k, v)
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		r.SetHeader("User-Agent", ua)
	}
	return c, nil
}

// HTTPError representa una respuesta no-2xx (después de agotar reintentos).
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status=%d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status=%d body=%s", e.Method, e.URL, e.StatusCode, e.Body)
}

// StatusOf devuelve el status de un *HTTPError envuelto en err, o 0.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// DoJSON envía in como JSON (si no es nil) y decodifica la respuesta en out
// (si no es nil y hay body). path es relativo a BaseURL o una URL absoluta.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.r == nil {
		return errors.New("httpclient: nil client")
	}

	target, err := c.target(path)
	if err != nil {
		return err
	}

	req := c.r.R().SetContext(ctx)
	if in != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(in)
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		return fmt.Errorf("httpclient: %s %s: %w", method, target, err)
	}

	if !resp.IsSuccess() {
		body := strings.TrimSpace(resp.String())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &HTTPError{Method: method, URL: target, StatusCode: resp.StatusCode(), Body: body}
	}

	raw := resp.Body()
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}

// target deja las URLs absolutas como están; las relativas las resuelve resty con BaseURL.
func (c *Client) target(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("httpclient: empty url")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	if c.baseURL == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, nil
}
