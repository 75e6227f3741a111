// Package restapi es el cliente de la API REST de stock: un Client genérico que
// desenvuelve el sobre {success, data, message, error} y un repositorio por
// colección que implementa los puertos de dominio.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

func init() {
	// La API espera números JSON, no strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 300 * time.Millisecond
	maxErrorBody      = 4 << 10
)

// Config parámetros del cliente.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int // reintentos tras el primer intento (0 = sin reintento)
	RetryDelay time.Duration
	Breaker    *CircuitBreaker
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client cliente JSON de la API.
type Client struct {
	baseURL    string
	retries    int
	retryDelay time.Duration
	breaker    *CircuitBreaker
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. Sin Breaker se usa uno con valores por defecto.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.Breaker == nil {
		cfg.Breaker = NewCircuitBreaker(CircuitBreakerConfig{})
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		breaker:    cfg.Breaker,
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
	}
}

// BreakerState estado del circuit breaker (para /health).
func (c *Client) BreakerState() CBState { return c.breaker.State() }

// envelope sobre común de todas las respuestas.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// APIError error devuelto por la API (status HTTP o success=false).
// Err es el error de dominio asociado (ErrNotFound, ErrInvalidInput, ErrAPI, ErrUnavailable).
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

type rawResponse struct {
	status int
	body   []byte
}

// Do ejecuta method sobre path y decodifica data en out (puede ser nil).
// Errores de red y 5xx se reintentan hasta Retries veces; 4xx y success=false no.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: serializar %s %s: %w", method, path, err)
		}
		payload = b
	}
	url := c.baseURL + path

	attempt := 0
	op := func() error {
		attempt++
		var resp *rawResponse
		err := c.breaker.Execute(func() error {
			r, err := c.send(ctx, method, url, payload)
			if err != nil {
				return err
			}
			resp = r
			if r.status >= http.StatusInternalServerError {
				return &APIError{Status: r.status, Message: envelopeMessage(r.body), Err: domain.ErrUnavailable}
			}
			return nil
		})
		if errors.Is(err, ErrCircuitOpen) {
			return backoff.Permanent(fmt.Errorf("api: %s %s: %w: %w", method, path, domain.ErrUnavailable, err))
		}
		if err != nil {
			c.log.Warn().Err(err).Str("method", method).Str("path", path).Int("attempt", attempt).Msg("api: intento fallido")
			return err
		}
		if err := decode(resp, out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.retries)),
		ctx,
	)
	start := time.Now()
	err := backoff.Retry(op, policy)
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("attempts", attempt).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("api: request")
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, domain.ErrUnavailable) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, ctxErr)
	}
	return fmt.Errorf("api: %s %s: %w: %w", method, path, domain.ErrUnavailable, err)
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte) (*rawResponse, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("api: crear request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: leer respuesta: %w", err)
	}
	return &rawResponse{status: resp.StatusCode, body: b}, nil
}

// decode interpreta el sobre. Un data ausente o null deja out sin tocar.
func decode(r *rawResponse, out any) error {
	if r.status >= http.StatusBadRequest {
		return &APIError{Status: r.status, Message: envelopeMessage(r.body), Err: statusError(r.status)}
	}
	if len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(r.body, &env); err != nil {
		return &APIError{Status: r.status, Message: "respuesta no es JSON válido", Err: domain.ErrAPI}
	}
	if !env.Success {
		return &APIError{Status: r.status, Message: firstNonEmpty(env.Error, env.Message), Err: domain.ErrAPI}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Status: r.status, Message: "data: " + err.Error(), Err: domain.ErrAPI}
	}
	return nil
}

func statusError(status int) error {
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return domain.ErrInvalidInput
	default:
		return domain.ErrAPI
	}
}

func envelopeMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		s := strings.TrimSpace(string(body))
		if len(s) > maxErrorBody {
			s = s[:maxErrorBody]
		}
		return s
	}
	return firstNonEmpty(env.Error, env.Message)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
