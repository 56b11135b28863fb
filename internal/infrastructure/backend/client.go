// Package backend implementa los servicios de recursos sobre la API REST (/api).
// Cada request pide un token fresco a la sesión y lo envía como Bearer; no hay reintentos.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa BackendFactory.
var _ ports.BackendFactory = (*Client)(nil)

// APIError respuesta no esperada del backend (status sin mapeo a error de dominio).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// Observer recibe cada llamada completada (métricas). status 0 = error de red.
type Observer func(method, route string, status int, elapsed time.Duration)

// Client adaptador HTTP hacia la API REST. Es seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
	observe    Observer
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registra un observador de llamadas.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// NewClient construye el adaptador. baseURL sin /api, ej. http://localhost:3000.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("backend"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// For devuelve los servicios de una sesión; el token se obtiene de tokens en cada request.
func (c *Client) For(tokens ports.TokenSource) ports.Backend {
	return &sessionBackend{c: c, tokens: tokens}
}

// do ejecuta la request. in != nil se envía como JSON; out != nil recibe el cuerpo 2xx.
func (c *Client) do(ctx context.Context, tokens ports.TokenSource, method, path string, in, out interface{}) error {
	token, err := tokens.IDToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: serializar: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: construir request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(method, path, 0, start)
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.record(method, path, resp.StatusCode, start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("backend: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend: decodificar %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) record(method, path string, status int, start time.Time) {
	elapsed := time.Since(start)
	c.log.Debug().Str("method", method).Str("path", path).Int("status", status).Dur("elapsed", elapsed).Msg("backend request")
	if c.observe != nil {
		c.observe(method, routeLabel(path), status, elapsed)
	}
}

// statusError traduce el status HTTP a errores de dominio.
func statusError(status int, raw []byte) error {
	var body dto.ErrorResponse
	_ = json.Unmarshal(raw, &body)

	var base error
	switch status {
	case http.StatusBadRequest:
		base = domain.ErrInvalidInput
	case http.StatusUnauthorized:
		base = domain.ErrUnauthorized
	case http.StatusForbidden:
		base = domain.ErrForbidden
		if body.Code == "ACCESS_DENIED" {
			base = domain.ErrAccessDenied
		}
	case http.StatusNotFound:
		base = domain.ErrNotFound
	case http.StatusConflict:
		base = domain.ErrConflict
	default:
		return &APIError{Status: status, Code: body.Code, Message: body.Message}
	}
	if body.Message != "" {
		return fmt.Errorf("%w: %s", base, body.Message)
	}
	return base
}

// routeLabel primer segmento del path (/quotations/7 -> /quotations) para etiquetas de métricas.
func routeLabel(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	return "/" + p
}
