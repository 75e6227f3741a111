package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	API   APIConfig
	Cache CacheConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // zona usada para "hoy" y "este mes" en el dashboard
	Store    string // "api" (REST externo) o "memoria" (store en proceso)
}

// Location carga la zona horaria configurada; si no existe usa time.Local.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig configuración del cliente de la API REST de stock.
type APIConfig struct {
	BaseURL          string
	Timeout          time.Duration
	Retries          int // reintentos por llamada fallida (1 = a lo sumo un reintento)
	FailureThreshold int // fallos consecutivos para abrir el circuit breaker
	OpenTimeout      time.Duration
}

// CacheConfig configuración de la caché de consultas.
type CacheConfig struct {
	TTL      time.Duration
	Backend  string // "memory" o "redis"
	RedisURL string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_URL, CACHE_TTL_SECONDS, etc.
func Load() (*Config, error) {
	// .env solo completa variables que no estén ya definidas
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gestion-stock"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "APP_TIMEZONE", "America/Asuncion"),
			Store:    getString(v, "STORE", "api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		API: APIConfig{
			BaseURL:          strings.TrimRight(getString(v, "API_URL", "http://localhost:3001/api"), "/"),
			Timeout:          time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 30)) * time.Second,
			Retries:          getInt(v, "API_RETRIES", 1),
			FailureThreshold: getInt(v, "CB_FAILURE_THRESHOLD", 5),
			OpenTimeout:      time.Duration(getInt(v, "CB_OPEN_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Cache: CacheConfig{
			TTL:      time.Duration(getInt(v, "CACHE_TTL_SECONDS", 300)) * time.Second,
			Backend:  getString(v, "CACHE_BACKEND", "memory"),
			RedisURL: getString(v, "REDIS_URL", "redis://localhost:6379/0"),
		},
	}

	if cfg.App.Store != "api" && cfg.App.Store != "memoria" {
		return nil, fmt.Errorf("config: STORE inválido %q (api|memoria)", cfg.App.Store)
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("config: CACHE_BACKEND inválido %q (memory|redis)", cfg.Cache.Backend)
	}
	if cfg.API.Retries < 0 {
		cfg.API.Retries = 0
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
