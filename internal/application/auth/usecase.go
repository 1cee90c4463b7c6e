package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/resto-pos/internal/application/dto"
	"github.com/jhoicas/resto-pos/internal/application/session"
	"github.com/jhoicas/resto-pos/internal/domain"
	"github.com/jhoicas/resto-pos/internal/infrastructure/rest"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// Rutas de login. La legacy queda de despliegues viejos y solo se usa como
// fallback de transporte/404, igual que en el refresh.
const (
	pathLogin       = "/auth/login/"
	pathLoginLegacy = "/auth/token/"
)

// UseCase casos de uso de autenticación del cliente: login y logout.
type UseCase struct {
	api  *rest.Client
	sess *session.Session
	log  *logger.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(api *rest.Client, sess *session.Session, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{api: api, sess: sess, log: log}
}

// Login autentica contra el backend y persiste el par de credenciales
// (claves canónicas + alias legacy). Devuelve el usuario si el backend lo
// incluye en la respuesta.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*dto.TokenEnvelope, error) {
	resp, err := uc.api.PostWithFallback(ctx, pathLogin, pathLoginLegacy, dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 400 || apiErr.Status == 401) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}

	var env dto.TokenEnvelope
	if err := resp.Decode(&env); err != nil {
		return nil, fmt.Errorf("login: respuesta ilegible: %w", err)
	}
	access := env.AccessValue()
	if access == "" {
		return nil, errors.New("login: la respuesta no trae access token")
	}
	if err := uc.sess.SaveTokens(access, env.RefreshValue()); err != nil {
		return nil, fmt.Errorf("login: guardar tokens: %w", err)
	}

	uc.log.Info().Str("email", email).Msg("sesión iniciada")
	return &env, nil
}

// Logout borra todas las credenciales locales. El backend no expone un
// endpoint de logout: invalidar el refresh token del lado del servidor no
// es necesario para cerrar la sesión del cliente.
func (uc *UseCase) Logout() error {
	if err := uc.sess.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	uc.log.Info().Msg("sesión cerrada")
	return nil
}

// HasSession indica si hay un refresh token almacenado (sesión reanudable).
func (uc *UseCase) HasSession() bool {
	return uc.sess.RefreshToken() != ""
}
