package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/cache"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newQuery(store cache.Store) (*cache.QueryClient, *clock) {
	clk := &clock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	return cache.NewQueryClient(store, 5*time.Minute, cache.WithClock(clk.Now)), clk
}

func counter(calls *int32, value []string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// QueryClient
// ──────────────────────────────────────────────────────────────────────────────

func TestFetch_FrescoNoVuelveAPedir(t *testing.T) {
	q, clk := newQuery(cache.NewMemoryStore())
	var calls int32
	ctx := context.Background()

	v, err := cache.Fetch(ctx, q, "insumos", counter(&calls, []string{"a"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	clk.Advance(4 * time.Minute)
	_, err = cache.Fetch(ctx, q, "insumos", counter(&calls, []string{"b"}))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_DeduplicaLecturasConcurrentes(t *testing.T) {
	q, _ := newQuery(cache.NewMemoryStore())
	var calls int32
	release := make(chan struct{})
	slow := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"x"}, nil
	}

	var wg sync.WaitGroup
	results := make([][]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.Fetch(context.Background(), q, "ventas", slow)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, []string{"x"}, r)
	}
}

func TestFetch_VencidoSirveYRefresca(t *testing.T) {
	q, clk := newQuery(cache.NewMemoryStore())
	var calls int32
	ctx := context.Background()

	_, err := cache.Fetch(ctx, q, "productos", counter(&calls, []string{"viejo"}))
	require.NoError(t, err)

	clk.Advance(6 * time.Minute)
	v, err := cache.Fetch(ctx, q, "productos", counter(&calls, []string{"nuevo"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"viejo"}, v, "el valor vencido se sirve de inmediato")

	q.Wait()
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	v, err = cache.Fetch(ctx, q, "productos", counter(&calls, []string{"otro"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"nuevo"}, v)
}

func TestInvalidate_PorPrefijo(t *testing.T) {
	q, _ := newQuery(cache.NewMemoryStore())
	var calls int32
	ctx := context.Background()

	_, _ = cache.Fetch(ctx, q, "insumos", counter(&calls, []string{"1"}))
	_, _ = cache.Fetch(ctx, q, cache.Key("insumos", int64(3)), counter(&calls, []string{"2"}))
	_, _ = cache.Fetch(ctx, q, "insumos_extra", counter(&calls, []string{"3"}))
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))

	q.Invalidate(ctx, "insumos")

	_, _ = cache.Fetch(ctx, q, "insumos", counter(&calls, nil))
	_, _ = cache.Fetch(ctx, q, "insumos:3", counter(&calls, nil))
	_, _ = cache.Fetch(ctx, q, "insumos_extra", counter(&calls, nil))
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls), "insumos_extra no coincide con el prefijo")
}

func TestFetch_LecturaTrasInvalidateNoReusaLaAnterior(t *testing.T) {
	q, _ := newQuery(cache.NewMemoryStore())
	ctx := context.Background()
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	previa := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return []string{"antes"}, nil
	}

	done := make(chan []string, 1)
	go func() {
		v, _ := cache.Fetch(ctx, q, "insumos", previa)
		done <- v
	}()
	<-started

	q.Invalidate(ctx, "insumos")
	v, err := cache.Fetch(ctx, q, "insumos", counter(&calls, []string{"despues"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"despues"}, v, "la lectura posterior a Invalidate va a la API")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	close(release)
	assert.Equal(t, []string{"antes"}, <-done)

	v, err = cache.Fetch(ctx, q, "insumos", counter(&calls, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"despues"}, v, "el resultado viejo no reemplaza al nuevo")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_ErrorNoSeCachea(t *testing.T) {
	q, _ := newQuery(cache.NewMemoryStore())
	var calls int32
	boom := errors.New("boom")
	failing := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	_, err := cache.Fetch(context.Background(), q, "ventas", failing)
	assert.ErrorIs(t, err, boom)
	_, err = cache.Fetch(context.Background(), q, "ventas", failing)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "insumos:3", cache.Key("insumos", int64(3)))
	assert.Equal(t, "ventas", cache.Key("ventas"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Redis
// ──────────────────────────────────────────────────────────────────────────────

func TestRedisStore_CompartidoEInvalidacion(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := cache.NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	qa, _ := newQuery(store)
	qb, _ := newQuery(store)
	var calls int32

	_, err := cache.Fetch(ctx, qa, "productos", counter(&calls, []string{"p"}))
	require.NoError(t, err)
	v, err := cache.Fetch(ctx, qb, "productos", counter(&calls, []string{"otro"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, v, "otra instancia lee la misma entrada")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, _ = cache.Fetch(ctx, qa, "productos:7", counter(&calls, []string{"q"}))
	qb.Invalidate(ctx, "productos")
	assert.False(t, mr.Exists("gestion-stock:cache:productos"))
	assert.False(t, mr.Exists("gestion-stock:cache:productos:7"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios con cache
// ──────────────────────────────────────────────────────────────────────────────

type countingInsumos struct {
	*memstore.Store
	lists int32
}

func (c *countingInsumos) List(ctx context.Context) ([]entity.Insumo, error) {
	atomic.AddInt32(&c.lists, 1)
	return c.Store.Insumos().List(ctx)
}
func (c *countingInsumos) GetByID(ctx context.Context, id int64) (*entity.Insumo, error) {
	return c.Store.Insumos().GetByID(ctx, id)
}
func (c *countingInsumos) Create(ctx context.Context, in *entity.Insumo) (*entity.Insumo, error) {
	return c.Store.Insumos().Create(ctx, in)
}
func (c *countingInsumos) Update(ctx context.Context, id int64, in *entity.Insumo) (*entity.Insumo, error) {
	return c.Store.Insumos().Update(ctx, id, in)
}
func (c *countingInsumos) Delete(ctx context.Context, id int64) error {
	return c.Store.Insumos().Delete(ctx, id)
}

func TestCachedInsumos_EscrituraInvalida(t *testing.T) {
	ctx := context.Background()
	inner := &countingInsumos{Store: memstore.New()}
	q, _ := newQuery(cache.NewMemoryStore())
	repo := cache.NewInsumoRepository(q, inner)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, _ = repo.List(ctx)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.lists))

	_, err = repo.Create(ctx, &entity.Insumo{Nombre: "Harina", Cantidad: decimal.NewFromInt(3), Unidad: "kg"})
	require.NoError(t, err)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "la lista refleja la escritura confirmada")
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.lists))
}

func TestCachedProducciones_InvalidaInsumosYProductos(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	q, _ := newQuery(cache.NewMemoryStore())
	insumos := cache.NewInsumoRepository(q, store.Insumos())
	producciones := cache.NewProduccionRepository(q, store.Producciones())

	harina, err := insumos.Create(ctx, &entity.Insumo{Nombre: "Harina", Cantidad: decimal.NewFromInt(10), Unidad: "kg"})
	require.NoError(t, err)
	before, err := insumos.List(ctx)
	require.NoError(t, err)
	require.True(t, before[0].Cantidad.Equal(decimal.NewFromInt(10)))

	precio := decimal.NewFromInt(1000)
	_, err = producciones.Create(ctx, &entity.ProduccionInput{
		NombreProducto: "Pan", CantidadProducida: decimal.NewFromInt(1), UnidadProducto: "u",
		Insumos:     []entity.InsumoConsumido{{InsumoID: harina.ID, CantidadUtilizada: decimal.NewFromInt(4)}},
		PrecioVenta: &precio,
	})
	require.NoError(t, err)

	after, err := insumos.List(ctx)
	require.NoError(t, err)
	assert.True(t, after[0].Cantidad.Equal(decimal.NewFromInt(6)))
}

type failingCreate struct{ *countingInsumos }

func (failingCreate) Create(context.Context, *entity.Insumo) (*entity.Insumo, error) {
	return nil, errors.New("timeout de la API")
}

func TestCachedInsumos_EscrituraFallidaTambienInvalida(t *testing.T) {
	ctx := context.Background()
	inner := &countingInsumos{Store: memstore.New()}
	q, _ := newQuery(cache.NewMemoryStore())
	repo := cache.NewInsumoRepository(q, failingCreate{inner})

	_, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&inner.lists))

	_, err = repo.Create(ctx, &entity.Insumo{Nombre: "Harina", Cantidad: decimal.NewFromInt(3), Unidad: "kg"})
	require.Error(t, err)

	_, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.lists), "la API pudo aplicar la escritura antes de fallar")
}
