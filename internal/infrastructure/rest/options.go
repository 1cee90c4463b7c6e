package rest

import (
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/resto-pos/internal/application/ports"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// request descripción inmutable de una petición saliente. El número de
// intento viaja por fuera (parámetro de do), no como campo mutable: así el
// guard contra reintentos dobles no depende de mutar un objeto compartido.
type request struct {
	method  string
	path    string
	body    any
	query   url.Values
	header  http.Header
	noAuth  bool
	noStore bool
}

// RequestOption ajusta una petición individual.
type RequestOption func(*request)

// WithQuery añade un parámetro de query.
func WithQuery(key, value string) RequestOption {
	return func(r *request) {
		if r.query == nil {
			r.query = url.Values{}
		}
		r.query.Set(key, value)
	}
}

// WithHeader añade una cabecera.
func WithHeader(key, value string) RequestOption {
	return func(r *request) {
		if r.header == nil {
			r.header = http.Header{}
		}
		r.header.Set(key, value)
	}
}

// WithoutAuth marca la petición como pública: sin bearer y sin protocolo de
// refresh ante un 401 (login, refresh y endpoints abiertos).
func WithoutAuth() RequestOption {
	return func(r *request) { r.noAuth = true }
}

// WithoutStoreParam desactiva la inyección automática del parámetro store.
func WithoutStoreParam() RequestOption {
	return func(r *request) { r.noStore = true }
}

// ClientOption ajusta la construcción del cliente.
type ClientOption func(*Client)

// WithHTTPClient reemplaza el transporte HTTP (tests).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithTimeout fija el timeout del transporte por defecto.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithNotifier conecta el puerto de notificaciones al operador.
func WithNotifier(n ports.Notifier) ClientOption {
	return func(c *Client) { c.notifier = n }
}

// WithLogger conecta el logger estructurado.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// WithSessionExpiredHook registra el hook de navegación forzada al login
// tras una expiración de sesión irrecuperable.
func WithSessionExpiredHook(fn func()) ClientOption {
	return func(c *Client) { c.onSessionExpired = fn }
}
