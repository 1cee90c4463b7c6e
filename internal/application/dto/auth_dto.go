package dto

import "github.com/jhoicas/resto-pos/internal/domain/entity"

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest cuerpo del POST de refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenEnvelope respuesta de login/refresh. Los distintos despliegues del
// backend han usado distintos nombres de campo para el mismo dato, así que
// se aceptan todos y AccessValue/RefreshValue eligen el primero no vacío.
type TokenEnvelope struct {
	Access       string       `json:"access"`
	Token        string       `json:"token"`
	AccessToken  string       `json:"access_token"`
	Refresh      string       `json:"refresh"`
	RefreshToken string       `json:"refresh_token"`
	User         *entity.User `json:"user,omitempty"`
}

// AccessValue devuelve el access token bajo cualquiera de sus alias.
func (e TokenEnvelope) AccessValue() string {
	switch {
	case e.Access != "":
		return e.Access
	case e.Token != "":
		return e.Token
	default:
		return e.AccessToken
	}
}

// RefreshValue devuelve el refresh token bajo cualquiera de sus alias.
func (e TokenEnvelope) RefreshValue() string {
	if e.Refresh != "" {
		return e.Refresh
	}
	return e.RefreshToken
}
