package jwt_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/resto-pos/pkg/jwt"
)

const testSecret = "secret-de-test"

// ──────────────────────────────────────────────────────────────────────────────
// Generate / Parse
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "st-1", "kitchen", "possim", time.Hour)
	require.NoError(t, err)

	userID, storeID, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "st-1", storeID)
	assert.Equal(t, "kitchen", role)
}

func TestParse_RechazaFirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "st-1", "kitchen", "possim", time.Hour)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "st-1", "kitchen", "possim", time.Hour)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// IsExpired: la comprobación del cliente es fail-open. Un token ilegible se
// trata como NO expirado y se deja que el servidor responda 401.
// ──────────────────────────────────────────────────────────────────────────────

func TestIsExpired_TokenVencido(t *testing.T) {
	// exp un segundo en el pasado
	tok, err := pkgjwt.Generate(testSecret, "u-1", "st-1", "kitchen", "possim", -time.Second)
	require.NoError(t, err)
	assert.True(t, pkgjwt.IsExpired(tok, time.Now()))
}

func TestIsExpired_TokenVigente(t *testing.T) {
	// exp una hora en el futuro
	tok, err := pkgjwt.Generate(testSecret, "u-1", "st-1", "kitchen", "possim", time.Hour)
	require.NoError(t, err)
	assert.False(t, pkgjwt.IsExpired(tok, time.Now()))
}

func TestIsExpired_FailOpen(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	cases := []struct {
		name  string
		token string
	}{
		{"cadena arbitraria", "no-es-un-token"},
		{"payload con base64 inválido", header + ".###no-base64###.firma"},
		{"payload que no es JSON", header + "." + base64.RawURLEncoding.EncodeToString([]byte("esto no es json")) + ".firma"},
		{"token vacío", ""},
		{"payload sin claim exp", header + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":"u-1"}`)) + ".firma"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, pkgjwt.IsExpired(tc.token, time.Now()),
				"un token ilegible debe tratarse como no expirado")
		})
	}
}
