package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente POS (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Channel ChannelConfig
	Session SessionConfig
	Screen  ScreenConfig
	Sim     SimConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// APIConfig configuración del backend REST.
type APIConfig struct {
	BaseURL string // ej. http://localhost:8080/api
	Timeout time.Duration
}

// ChannelConfig configuración del canal push de cocina (WebSocket).
type ChannelConfig struct {
	URL string // ej. ws://localhost:8080/ws/kds/
}

// SessionConfig configuración del almacén local de credenciales.
type SessionConfig struct {
	Path string // ruta del archivo JSON que emula el local storage del navegador
}

// ScreenConfig selección de pantalla y contexto de tienda/sucursal.
type ScreenConfig struct {
	Mode     string // kitchen | cashier
	StoreID  string
	BranchID string
	Email    string // credenciales para login inicial (opcional si ya hay sesión)
	Password string
}

// SimConfig configuración del simulador de backend (cmd/possim).
type SimConfig struct {
	Host         string
	Port         int
	JWTSecret    string
	AccessTTL    time.Duration // vida corta para ejercitar el refresh
	RefreshTTL   time.Duration
	OrderEvery   time.Duration // cadencia de generación de pedidos sintéticos
	AdvanceEvery time.Duration // cadencia de avance de estado de pedidos
}

// Addr devuelve la dirección de escucha del simulador (host:port).
func (c SimConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente un archivo .env).
// Las env vars tienen prioridad. Nombres esperados: POS_API_URL, POS_WS_URL, POS_SESSION_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env en el directorio de trabajo
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "resto-pos"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: getString(v, "POS_API_URL", "http://localhost:8080/api"),
			Timeout: time.Duration(getInt(v, "POS_API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Channel: ChannelConfig{
			URL: getString(v, "POS_WS_URL", "ws://localhost:8080/ws/kds/"),
		},
		Session: SessionConfig{
			Path: getString(v, "POS_SESSION_PATH", ".pos-session.json"),
		},
		Screen: ScreenConfig{
			Mode:     getString(v, "POS_SCREEN", "kitchen"),
			StoreID:  getString(v, "POS_STORE_ID", ""),
			BranchID: getString(v, "POS_BRANCH_ID", ""),
			Email:    getString(v, "POS_EMAIL", ""),
			Password: getString(v, "POS_PASSWORD", ""),
		},
		Sim: SimConfig{
			Host:         getString(v, "SIM_HOST", "0.0.0.0"),
			Port:         getInt(v, "SIM_PORT", 8080),
			JWTSecret:    getString(v, "SIM_JWT_SECRET", "possim-dev-secret"),
			AccessTTL:    time.Duration(getInt(v, "SIM_ACCESS_TTL_SECONDS", 60)) * time.Second,
			RefreshTTL:   time.Duration(getInt(v, "SIM_REFRESH_TTL_MINUTES", 480)) * time.Minute,
			OrderEvery:   time.Duration(getInt(v, "SIM_ORDER_EVERY_SECONDS", 20)) * time.Second,
			AdvanceEvery: time.Duration(getInt(v, "SIM_ADVANCE_EVERY_SECONDS", 12)) * time.Second,
		},
	}

	if cfg.Screen.Mode != "kitchen" && cfg.Screen.Mode != "cashier" {
		return nil, fmt.Errorf("config: POS_SCREEN inválido %q (se espera kitchen o cashier)", cfg.Screen.Mode)
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
