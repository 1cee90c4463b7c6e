package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-pos/internal/application/session"
	"github.com/jhoicas/resto-pos/internal/infrastructure/localstore"
)

func TestSaveTokens_EscribeCanonicaYAlias(t *testing.T) {
	kv := localstore.NewMemStore()
	s := session.New(kv)

	require.NoError(t, s.SaveTokens("ACC-1", "REF-1"))

	snap := kv.Snapshot()
	// Toda escritura de tokens debe dejar la clave canónica y su alias
	// legacy con el MISMO valor.
	assert.Equal(t, "ACC-1", snap[session.KeyAccess])
	assert.Equal(t, "ACC-1", snap[session.KeyAccessLegacy])
	assert.Equal(t, "REF-1", snap[session.KeyRefresh])
	assert.Equal(t, "REF-1", snap[session.KeyRefreshLegacy])
}

func TestSaveTokens_RefreshVacioConservaElAnterior(t *testing.T) {
	kv := localstore.NewMemStore()
	s := session.New(kv)

	require.NoError(t, s.SaveTokens("ACC-1", "REF-1"))
	require.NoError(t, s.SaveTokens("ACC-2", ""))

	assert.Equal(t, "ACC-2", s.AccessToken())
	assert.Equal(t, "REF-1", s.RefreshToken(), "sin rotación el refresh anterior sigue vigente")
}

func TestAccessToken_LeeAliasLegacySiFaltaLaCanonica(t *testing.T) {
	kv := localstore.NewMemStore()
	// Sesión escrita por una versión vieja del cliente: solo claves cortas.
	require.NoError(t, kv.Set(session.KeyAccessLegacy, "ACC-VIEJA"))
	require.NoError(t, kv.Set(session.KeyRefreshLegacy, "REF-VIEJA"))

	s := session.New(kv)
	assert.Equal(t, "ACC-VIEJA", s.AccessToken())
	assert.Equal(t, "REF-VIEJA", s.RefreshToken())
}

func TestClear_BorraTodasLasClaves(t *testing.T) {
	kv := localstore.NewMemStore()
	s := session.New(kv)
	require.NoError(t, s.SaveTokens("ACC", "REF"))
	require.NoError(t, s.SaveSelectedStore("st-1", "Centro"))

	require.NoError(t, s.Clear())

	assert.Empty(t, kv.Snapshot())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
}

func TestSelectedStore(t *testing.T) {
	kv := localstore.NewMemStore()
	s := session.New(kv)
	require.NoError(t, s.SaveSelectedStore("st-7", "Norte"))

	id, name := s.SelectedStore()
	assert.Equal(t, "st-7", id)
	assert.Equal(t, "Norte", name)
}
