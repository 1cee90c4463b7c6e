package session

import "github.com/jhoicas/resto-pos/internal/domain/repository"

// Claves del almacén local. Las variantes "legacy" existen por compatibilidad
// con versiones anteriores del cliente que leían los nombres cortos; toda
// escritura de tokens debe dejar ambas variantes con el mismo valor.
const (
	KeyAccess        = "access_token"
	KeyAccessLegacy  = "access"
	KeyRefresh       = "refresh_token"
	KeyRefreshLegacy = "refresh"
	KeyStoreID       = "selected_store_id"
	KeyStoreName     = "selected_store_name"
)

var allKeys = []string{
	KeyAccess, KeyAccessLegacy,
	KeyRefresh, KeyRefreshLegacy,
	KeyStoreID, KeyStoreName,
}

// Session maneja credenciales y contexto de tienda sobre un KeyValueStore.
// Es el único componente autorizado a escribir tokens; el pipeline REST
// serializa esas escrituras con su flag de refresh en curso.
type Session struct {
	kv repository.KeyValueStore
}

// New construye la sesión sobre el almacén dado.
func New(kv repository.KeyValueStore) *Session {
	return &Session{kv: kv}
}

// AccessToken devuelve el access token actual, o "" si no hay sesión.
func (s *Session) AccessToken() string {
	if v := s.kv.Get(KeyAccess); v != "" {
		return v
	}
	return s.kv.Get(KeyAccessLegacy)
}

// RefreshToken devuelve el refresh token actual, o "" si no hay.
func (s *Session) RefreshToken() string {
	if v := s.kv.Get(KeyRefresh); v != "" {
		return v
	}
	return s.kv.Get(KeyRefreshLegacy)
}

// SaveTokens persiste el par de credenciales escribiendo clave canónica y
// alias legacy. Un refresh vacío conserva el refresh token anterior (la
// rotación es opcional del lado del servidor).
func (s *Session) SaveTokens(access, refresh string) error {
	if err := s.kv.Set(KeyAccess, access); err != nil {
		return err
	}
	if err := s.kv.Set(KeyAccessLegacy, access); err != nil {
		return err
	}
	if refresh == "" {
		return nil
	}
	if err := s.kv.Set(KeyRefresh, refresh); err != nil {
		return err
	}
	return s.kv.Set(KeyRefreshLegacy, refresh)
}

// SelectedStore devuelve el contexto de tienda seleccionado (id, nombre).
func (s *Session) SelectedStore() (id, name string) {
	return s.kv.Get(KeyStoreID), s.kv.Get(KeyStoreName)
}

// SaveSelectedStore persiste la selección de tienda.
func (s *Session) SaveSelectedStore(id, name string) error {
	if err := s.kv.Set(KeyStoreID, id); err != nil {
		return err
	}
	return s.kv.Set(KeyStoreName, name)
}

// Clear borra TODAS las claves de la sesión (logout o refresh irrecuperable).
func (s *Session) Clear() error {
	for _, k := range allKeys {
		if err := s.kv.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
