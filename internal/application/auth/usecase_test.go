package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-pos/internal/application/auth"
	"github.com/jhoicas/resto-pos/internal/application/session"
	"github.com/jhoicas/resto-pos/internal/domain"
	"github.com/jhoicas/resto-pos/internal/infrastructure/localstore"
	"github.com/jhoicas/resto-pos/internal/infrastructure/rest"
)

func newUseCase(t *testing.T, h http.Handler) (*auth.UseCase, *localstore.MemStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	kv := localstore.NewMemStore()
	sess := session.New(kv)
	api, err := rest.NewClient(srv.URL, sess)
	require.NoError(t, err)
	return auth.NewUseCase(api, sess, nil), kv
}

func TestLogin_GuardaClavesCanonicasYAlias(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "caja@demo.co", in["email"])
		_, _ = w.Write([]byte(`{"access":"ACC","refresh":"REF","user":{"id":"u-1","email":"caja@demo.co","role":"cashier"}}`))
	})

	uc, kv := newUseCase(t, mux)
	env, err := uc.Login(context.Background(), "caja@demo.co", "demo1234")
	require.NoError(t, err)
	require.NotNil(t, env.User)
	assert.Equal(t, "cashier", env.User.Role)

	snap := kv.Snapshot()
	assert.Equal(t, "ACC", snap[session.KeyAccess])
	assert.Equal(t, "ACC", snap[session.KeyAccessLegacy])
	assert.Equal(t, "REF", snap[session.KeyRefresh])
	assert.Equal(t, "REF", snap[session.KeyRefreshLegacy])
	assert.True(t, uc.HasSession())
}

func TestLogin_FallbackRutaLegacyYAliasDeCampos(t *testing.T) {
	var legacyHits int
	mux := http.NewServeMux()
	// La primaria no existe en este despliegue.
	mux.HandleFunc("POST /auth/token/", func(w http.ResponseWriter, r *http.Request) {
		legacyHits++
		// Nombres de campo viejos: token / refresh_token.
		_, _ = w.Write([]byte(`{"token":"ACC-L","refresh_token":"REF-L"}`))
	})

	uc, kv := newUseCase(t, mux)
	_, err := uc.Login(context.Background(), "caja@demo.co", "demo1234")
	require.NoError(t, err)
	assert.Equal(t, 1, legacyHits)
	assert.Equal(t, "ACC-L", kv.Snapshot()[session.KeyAccess])
	assert.Equal(t, "REF-L", kv.Snapshot()[session.KeyRefreshLegacy])
}

func TestLogin_CredencialesInvalidasNoCaenALaLegacy(t *testing.T) {
	var legacyHits int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"credenciales inválidas"}`))
	})
	mux.HandleFunc("POST /auth/token/", func(w http.ResponseWriter, r *http.Request) {
		legacyHits++
	})

	uc, _ := newUseCase(t, mux)
	_, err := uc.Login(context.Background(), "caja@demo.co", "mala-clave")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Zero(t, legacyHits, "un rechazo real de credenciales no debe enmascararse con la legacy")
}

func TestLogout_BorraLaSesion(t *testing.T) {
	uc, kv := newUseCase(t, http.NewServeMux())
	require.NoError(t, kv.Set(session.KeyAccess, "ACC"))
	require.NoError(t, kv.Set(session.KeyRefresh, "REF"))

	require.NoError(t, uc.Logout())
	assert.Empty(t, kv.Snapshot())
	assert.False(t, uc.HasSession())
}
