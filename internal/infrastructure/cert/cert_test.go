package cert_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovoltera/erp-api/internal/infrastructure/cert"
)

func TestInspect_ArquivoInvalido(t *testing.T) {
	_, err := cert.Inspect([]byte("isto não é um pfx"), "senha")
	require.Error(t, err)
}

func TestInspectBase64_Base64Invalido(t *testing.T) {
	_, err := cert.InspectBase64("%%%não-base64%%%", "senha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64")
}

func TestInfo_Expirado(t *testing.T) {
	info := &cert.Info{
		ValidoDesde: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidoAte:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, info.Expirado(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, info.Expirado(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}
