package restapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/restapi"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newClient(t *testing.T, h http.HandlerFunc) (*restapi.Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c := restapi.NewClient(restapi.Config{
		BaseURL:    srv.URL + "/api/",
		Retries:    1,
		RetryDelay: time.Millisecond,
		Breaker:    restapi.NewCircuitBreaker(restapi.CircuitBreakerConfig{FailureThreshold: 10}),
	})
	return c, &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sobre de respuesta
// ──────────────────────────────────────────────────────────────────────────────

func TestList_DesenvuelveData(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/insumos", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":1,"nombre":"Harina","cantidad":12.5,"unidad":"kg","precio_unitario":"3500"}]}`)
	})

	list, err := restapi.NewInsumoRepository(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Harina", list[0].Nombre)
	assert.True(t, list[0].Cantidad.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, list[0].PrecioUnitario)
}

func TestList_SinDataDevuelveVacio(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})

	list, err := restapi.NewVentaRepository(c).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSuccessFalse_NoSeReintenta(t *testing.T) {
	c, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"error":"Stock insuficiente"}`)
	})

	_, err := restapi.NewProductoRepository(c).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAPI)
	assert.Contains(t, err.Error(), "Stock insuficiente")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos
// ──────────────────────────────────────────────────────────────────────────────

func TestError5xx_SeReintentaUnaVez(t *testing.T) {
	c, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"success":false,"error":"db caída"}`)
	})

	_, err := restapi.NewInsumoRepository(c).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls), "un intento más un reintento")
}

func TestError5xx_ReintentoExitoso(t *testing.T) {
	var n int32
	c, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			writeJSON(w, http.StatusBadGateway, ``)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	})

	_, err := restapi.NewInsumoRepository(c).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestError4xx_NoSeReintenta(t *testing.T) {
	c, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"message":"cantidad inválida"}`)
	})

	_, err := restapi.NewInsumoRepository(c).Create(context.Background(), &entity.Insumo{Nombre: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestGetByID_404DevuelveNil(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"success":false,"error":"no encontrado"}`)
	})

	got, err := restapi.NewProductoRepository(c).GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByID_DataNull(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":null}`)
	})

	got, err := restapi.NewInsumoRepository(c).GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuerpo de escritura
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduccion_EnviaNumerosYSinPrecioEnExistente(t *testing.T) {
	var body map[string]any
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/producciones", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"id":5,"nombre_producto":"Pan","cantidad_producida":3,"unidad_producto":"u","fecha":"2024-03-10T12:00:00.000Z"}}`)
	})
	pid := int64(10)

	out, err := restapi.NewProduccionRepository(c).Create(context.Background(), &entity.ProduccionInput{
		NombreProducto: "Pan", CantidadProducida: decimal.NewFromInt(3), UnidadProducto: "u",
		Fecha:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Insumos:    []entity.InsumoConsumido{{InsumoID: 1, CantidadUtilizada: decimal.NewFromInt(2)}},
		ProductoID: &pid,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)

	assert.Equal(t, float64(3), body["cantidad_producida"], "decimal viaja como número JSON")
	assert.Equal(t, float64(10), body["producto_id"])
	assert.NotContains(t, body, "precio_venta")
}

func TestDelete(t *testing.T) {
	c, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/ventas/3", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"message":"Venta eliminada"}`)
	})

	require.NoError(t, restapi.NewVentaRepository(c).Delete(context.Background(), 3))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRedCaida_ErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := restapi.NewClient(restapi.Config{BaseURL: url, Retries: 1, RetryDelay: time.Millisecond})
	_, err := restapi.NewInsumoRepository(c).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
