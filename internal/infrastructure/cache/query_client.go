// Package cache es la capa de lectura/escritura entre las páginas y la API:
// deduplica lecturas concurrentes, sirve resultados frescos durante el TTL,
// refresca en segundo plano los vencidos e invalida colecciones tras escribir.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/gestion-stock/pkg/logger"
)

const (
	// DefaultTTL ventana de frescura por defecto.
	DefaultTTL = 5 * time.Minute

	backgroundTimeout = 30 * time.Second
)

// Key arma la clave de una consulta: Key("insumos", 3) = "insumos:3".
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case string:
			s[i] = v
		case int64:
			s[i] = strconv.FormatInt(v, 10)
		default:
			s[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(s, ":")
}

// QueryClient cache de consultas sobre un Store.
type QueryClient struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
	now   func() time.Time

	// generation cambia con cada Invalidate; una lectura iniciada antes no guarda su resultado.
	generation atomic.Uint64
	refreshing sync.Map
	wg         sync.WaitGroup
}

// Option configura el QueryClient.
type Option func(*QueryClient)

// WithLogger registra fallos del store y de los refrescos en segundo plano.
func WithLogger(l *logger.Logger) Option {
	return func(q *QueryClient) { q.log = l }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(q *QueryClient) { q.now = now }
}

// NewQueryClient crea el cliente. ttl <= 0 usa DefaultTTL.
func NewQueryClient(store Store, ttl time.Duration, opts ...Option) *QueryClient {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	q := &QueryClient{store: store, ttl: ttl, log: logger.Nop(), now: time.Now}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Invalidate fuerza a que la próxima lectura de prefix (y de prefix:*) vaya a la API.
func (q *QueryClient) Invalidate(ctx context.Context, prefixes ...string) {
	q.generation.Add(1)
	for _, p := range prefixes {
		if err := q.store.DeletePrefix(ctx, p); err != nil {
			q.log.Warn().Err(err).Str("prefix", p).Msg("cache: invalidar")
		}
	}
}

// Wait espera los refrescos en segundo plano pendientes.
func (q *QueryClient) Wait() { q.wg.Wait() }

// Fetch devuelve el valor de key: fresco desde el store, vencido (disparando un
// refresco en segundo plano) o pedido a fn. Las llamadas concurrentes a la
// misma key sin valor cacheado comparten una única llamada a fn.
func Fetch[T any](ctx context.Context, q *QueryClient, key string, fn func(context.Context) (T, error)) (T, error) {
	if e, ok := q.lookup(ctx, key); ok {
		var v T
		if err := json.Unmarshal(e.Data, &v); err == nil {
			if q.now().Sub(e.FetchedAt) >= q.ttl {
				refreshInBackground(q, key, fn)
			}
			return v, nil
		}
	}

	gen := q.generation.Load()
	res, err, _ := q.group.Do(flightKey(key, gen), func() (any, error) {
		return load(ctx, q, key, gen, fn)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (q *QueryClient) lookup(ctx context.Context, key string) (Entry, bool) {
	e, ok, err := q.store.Get(ctx, key)
	if err != nil {
		q.log.Warn().Err(err).Str("key", key).Msg("cache: leer")
		return Entry{}, false
	}
	return e, ok
}

// flightKey separa las llamadas en curso por generación: una lectura posterior a
// Invalidate no se une a una llamada iniciada antes.
func flightKey(key string, gen uint64) string {
	return key + "#" + strconv.FormatUint(gen, 10)
}

func load[T any](ctx context.Context, q *QueryClient, key string, gen uint64, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	if q.generation.Load() != gen {
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		q.log.Warn().Err(err).Str("key", key).Msg("cache: serializar")
		return v, nil
	}
	if err := q.store.Set(ctx, key, Entry{Data: data, FetchedAt: q.now()}); err != nil {
		q.log.Warn().Err(err).Str("key", key).Msg("cache: guardar")
	}
	return v, nil
}

func refreshInBackground[T any](q *QueryClient, key string, fn func(context.Context) (T, error)) {
	if _, busy := q.refreshing.LoadOrStore(key, struct{}{}); busy {
		return
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer q.refreshing.Delete(key)
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		gen := q.generation.Load()
		_, err, _ := q.group.Do(flightKey(key, gen), func() (any, error) {
			return load(ctx, q, key, gen, fn)
		})
		if err != nil {
			q.log.Warn().Err(err).Str("key", key).Msg("cache: refresco en segundo plano")
		}
	}()
}
