package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrConnectivity       = errors.New("sin conexión con el servidor, verifica tu red")
	ErrSessionExpired     = errors.New("sesión expirada, inicia sesión de nuevo")
	ErrNoRefreshToken     = errors.New("no hay refresh token almacenado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUnauthorized       = errors.New("no autorizado")
)
