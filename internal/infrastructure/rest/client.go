package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/resto-pos/internal/application/dto"
	"github.com/jhoicas/resto-pos/internal/application/ports"
	"github.com/jhoicas/resto-pos/internal/application/session"
	"github.com/jhoicas/resto-pos/internal/domain"
	pkgjwt "github.com/jhoicas/resto-pos/pkg/jwt"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// Rutas de autenticación. Las variantes legacy existen en despliegues
// antiguos del backend; solo se usan como fallback ante 404/405 o fallo de
// transporte, nunca ante un rechazo real de credenciales.
const (
	pathRefresh       = "/auth/refresh/"
	pathRefreshLegacy = "/auth/token/refresh/"
)

// Response respuesta cruda de una petición al backend.
type Response struct {
	Status int
	Body   []byte
}

// Decode deserializa el cuerpo JSON sobre v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Client es el pipeline de peticiones autenticadas: inyecta el bearer y el
// contexto de tienda, detecta 401, coordina UN solo refresh por ventana de
// expiración y reintenta la petición original de forma transparente.
//
// Los 401 que llegan mientras hay un refresh en curso se encolan como
// continuaciones y se liberan en orden de registro cuando el refresh
// termina, con el token nuevo (o con el error del refresh si falló).
type Client struct {
	base     *url.URL
	http     *http.Client
	session  *session.Session
	notifier ports.Notifier
	log      *logger.Logger

	// onSessionExpired hook de navegación forzada al login.
	onSessionExpired func()

	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
}

// NewClient construye el pipeline sobre la URL base del backend.
func NewClient(baseURL string, sess *session.Session, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("rest: URL base inválida %q: %w", baseURL, err)
	}
	c := &Client{
		base:     base,
		http:     &http.Client{Timeout: 15 * time.Second},
		session:  sess,
		notifier: ports.NopNotifier{},
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request ejecuta una petición autenticada contra el backend.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	r := &request{method: method, path: path, body: body}
	for _, opt := range opts {
		opt(r)
	}
	return c.do(ctx, r, 0)
}

// Get atajo para peticiones GET autenticadas.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

// Post atajo para peticiones POST autenticadas.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

// Patch atajo para peticiones PATCH autenticadas.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, body, opts...)
}

// do despacha la petición. attempt cuenta los envíos ya realizados: una
// petición reintentada tras refresh llega con attempt=1 y un segundo 401 se
// devuelve tal cual (corta cualquier bucle de refresh).
func (c *Client) do(ctx context.Context, r *request, attempt int) (*Response, error) {
	sentToken := ""
	if !r.noAuth {
		sentToken = c.session.AccessToken()
	}

	resp, err := c.send(ctx, r, sentToken)
	if err != nil {
		// Sin respuesta del servidor: error de conectividad, nunca refresh.
		c.notifier.Notice(domain.ErrConnectivity.Error())
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}

	if resp.Status < http.StatusMultipleChoices {
		return resp, nil
	}
	if resp.Status != http.StatusUnauthorized || r.noAuth {
		return nil, newAPIError(resp)
	}
	if attempt >= 1 {
		// Ya se reintentó una vez con token fresco; el 401 es definitivo.
		return nil, newAPIError(resp)
	}
	return c.recover401(ctx, r, sentToken)
}

// recover401 aplica el protocolo de refresh para un primer 401.
func (c *Client) recover401(ctx context.Context, r *request, sentToken string) (*Response, error) {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		c.expireSession()
		return nil, domain.ErrSessionExpired
	}

	c.mu.Lock()
	if cur := c.session.AccessToken(); cur != "" && cur != sentToken {
		// Otro caller ya completó un refresh entre el envío y este 401:
		// basta con reintentar con el token vigente.
		c.mu.Unlock()
		return c.do(ctx, r, 1)
	}
	if c.refreshing {
		// Refresh en vuelo: encolar la continuación y esperar su resultado.
		wait := make(chan error, 1)
		c.waiters = append(c.waiters, wait)
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err := <-wait:
			if err != nil {
				return nil, err
			}
			return c.do(ctx, r, 1)
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	err := c.refresh(ctx, refreshToken)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	// Liberar las continuaciones en su orden de registro.
	for _, w := range waiters {
		w <- err
	}

	if err != nil {
		c.expireSession()
		return nil, err
	}
	return c.do(ctx, r, 1)
}

// refresh llama al endpoint de refresh y persiste el par nuevo. Cualquier
// error aquí es terminal para la sesión (el caller limpia credenciales).
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	resp, err := c.PostWithFallback(ctx, pathRefresh, pathRefreshLegacy, dto.RefreshRequest{Refresh: refreshToken})
	if err != nil {
		return fmt.Errorf("refresh de sesión: %w", err)
	}
	var env dto.TokenEnvelope
	if err := resp.Decode(&env); err != nil {
		return fmt.Errorf("refresh de sesión: respuesta ilegible: %w", err)
	}
	access := env.AccessValue()
	if access == "" {
		return errors.New("refresh de sesión: la respuesta no trae access token")
	}
	if err := c.session.SaveTokens(access, env.RefreshValue()); err != nil {
		return fmt.Errorf("refresh de sesión: guardar tokens: %w", err)
	}
	c.log.Debug().Msg("access token renovado")
	return nil
}

// PostWithFallback hace un POST público al path primario y cae al legacy
// SOLO ante fallo de transporte o 404/405. Un 400/401 del primario es un
// rechazo real y se propaga sin enmascarar.
func (c *Client) PostWithFallback(ctx context.Context, primary, legacy string, body any) (*Response, error) {
	resp, err := c.Request(ctx, http.MethodPost, primary, body, WithoutAuth(), WithoutStoreParam())
	if err == nil {
		return resp, nil
	}
	if legacy == "" || !shouldFallback(err) {
		return nil, err
	}
	c.log.Debug().Str("primary", primary).Str("legacy", legacy).Msg("ruta primaria no disponible, usando legacy")
	return c.Request(ctx, http.MethodPost, legacy, body, WithoutAuth(), WithoutStoreParam())
}

func shouldFallback(err error) bool {
	if errors.Is(err, domain.ErrConnectivity) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusMethodNotAllowed
	}
	return false
}

// expireSession limpia todas las claves del almacén local, avisa al operador y dispara la
// navegación forzada al login.
func (c *Client) expireSession() {
	if err := c.session.Clear(); err != nil {
		c.log.Error().Err(err).Msg("limpiar sesión expirada")
	}
	c.notifier.Alert(domain.ErrSessionExpired.Error())
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// send construye y ejecuta la petición HTTP. Devuelve error solo cuando no
// hubo respuesta (conectividad); cualquier status del servidor se devuelve
// como Response.
func (c *Client) send(ctx context.Context, r *request, token string) (*Response, error) {
	u := *c.base
	u.Path = joinPath(c.base.Path, r.path)

	q := u.Query()
	for k, vs := range r.query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	// Contexto de tienda: solo si el caller no mandó ya el parámetro.
	if !r.noAuth && !r.noStore && q.Get("store") == "" {
		if storeID, _ := c.session.SelectedStore(); storeID != "" {
			q.Set("store", storeID)
		}
	}
	u.RawQuery = q.Encode()

	var bodyReader io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("serializar cuerpo: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		if pkgjwt.IsExpired(token, time.Now()) {
			// Solo informativo: la autoridad sobre la expiración es el 401.
			c.log.Debug().Str("path", r.path).Msg("access token vencido, se anticipa 401")
		}
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: httpResp.StatusCode, Body: raw}, nil
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	if len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + p
}
