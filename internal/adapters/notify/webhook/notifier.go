package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medication-reminder/internal/platform/httpclient"
	"medication-reminder/internal/ports/notify"
)

var (
	ErrNotConfigured = errors.New("webhook notifier not configured")
	ErrUnauthorized  = errors.New("webhook unauthorized")
	ErrUpstream      = errors.New("webhook upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string // default X-Api-Key
	Timeout      time.Duration
	Retries      int // solo errores de red y 5xx
}

// Notifier reenvía los recordatorios a un servicio HTTP externo:
//
//	POST   <base>/recurring    {"items": [...]}  reemplaza el conjunto
//	POST   <base>/once         notify.Once
//	DELETE <base>/once/{id}
type Notifier struct {
	http *httpclient.Client
}

func New(cfg Config) (*Notifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	c, err := httpclient.New(httpclient.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		Headers:   map[string]string{h: strings.TrimSpace(cfg.APIKey)},
		UserAgent: "medication-reminder",
	})
	if err != nil {
		return nil, err
	}
	return &Notifier{http: c}, nil
}

type recurringRequest struct {
	Items []notify.Recurring `json:"items"`
}

func (n *Notifier) ReplaceRecurring(ctx context.Context, items []notify.Recurring) error {
	if items == nil {
		items = []notify.Recurring{}
	}
	return n.do(ctx, http.MethodPost, "/recurring", recurringRequest{Items: items})
}

func (n *Notifier) ScheduleOnce(ctx context.Context, item notify.Once) error {
	return n.do(ctx, http.MethodPost, "/once", item)
}

// Cancel trata 404 como éxito: el trigger ya no existe.
func (n *Notifier) Cancel(ctx context.Context, id string) error {
	err := n.do(ctx, http.MethodDelete, "/once/"+url.PathEscape(id), nil)
	if httpclient.StatusOf(err) == http.StatusNotFound {
		return nil
	}
	return err
}

func (n *Notifier) do(ctx context.Context, method, path string, in any) error {
	err := n.http.DoJSON(ctx, method, path, in, nil)
	if err == nil {
		return nil
	}

	switch httpclient.StatusOf(err) {
	case 0:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
