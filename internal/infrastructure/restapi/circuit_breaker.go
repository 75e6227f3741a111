package restapi

import (
	"errors"
	"sync"
	"time"
)

// ── Circuit Breaker ──────────────────────────────────────────────────────────
// Closed → Open → Half-Open. Con la API caída corta las llamadas de inmediato
// en lugar de esperar el timeout de cada request.
//
// Estados:
//   - Closed:    operación normal
//   - Open:      toda llamada falla sin salir a la red
//   - Half-Open: se deja pasar una llamada de prueba

// CBState estado del circuit breaker.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

// String nombre del estado para logs y /health.
func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen se devuelve cuando el breaker está abierto.
var ErrCircuitOpen = errors.New("circuit breaker abierto")

// CircuitBreakerConfig parámetros ajustables.
type CircuitBreakerConfig struct {
	FailureThreshold int           // fallos consecutivos para abrir (default: 5)
	SuccessThreshold int           // éxitos en half-open para cerrar (default: 1)
	OpenTimeout      time.Duration // tiempo abierto antes de probar (default: 30s)
}

// CircuitBreaker implementación segura para uso concurrente.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            CBState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	now              func() time.Time
}

// NewCircuitBreaker crea un breaker cerrado.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		state:            CBClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
		now:              time.Now,
	}
}

// State estado actual; pasa de open a half-open si venció el timeout.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CBOpen && cb.now().Sub(cb.lastFailureTime) >= cb.openTimeout {
		cb.state = CBHalfOpen
		cb.successCount = 0
	}
	return cb.state
}

// Execute ejecuta fn a través del breaker. Con el breaker abierto devuelve
// ErrCircuitOpen sin llamar a fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

// onFailure requiere cb.mu tomado.
func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case CBClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.state = CBOpen
			cb.successCount = 0
		}
	case CBHalfOpen:
		cb.state = CBOpen
		cb.failureCount = 0
	}
}

// onSuccess requiere cb.mu tomado.
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failureCount = 0
	case CBHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = CBClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}
