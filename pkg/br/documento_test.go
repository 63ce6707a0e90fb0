package br_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovoltera/erp-api/pkg/br"
)

func TestValidateCNPJ_Valido(t *testing.T) {
	// CNPJ de exemplo da RFB com dígitos verificadores corretos.
	require.NoError(t, br.ValidateCNPJ("11.222.333/0001-81"))
	require.NoError(t, br.ValidateCNPJ("11222333000181"))
}

func TestValidateCNPJ_DigitoErrado(t *testing.T) {
	err := br.ValidateCNPJ("11.222.333/0001-82")
	assert.Error(t, err, "CNPJ com DV trocado deve falhar")
}

func TestValidateCNPJ_TamanhoErrado(t *testing.T) {
	assert.Error(t, br.ValidateCNPJ("1122233300018"))
	assert.Error(t, br.ValidateCNPJ(""))
}

func TestValidateCNPJ_TodosIguais(t *testing.T) {
	assert.Error(t, br.ValidateCNPJ("00000000000000"))
}

func TestValidateCPF_Valido(t *testing.T) {
	require.NoError(t, br.ValidateCPF("529.982.247-25"))
}

func TestValidateCPF_Invalido(t *testing.T) {
	assert.Error(t, br.ValidateCPF("529.982.247-26"))
	assert.Error(t, br.ValidateCPF("11111111111"))
}

func TestValidateDocumento_DecidePorTamanho(t *testing.T) {
	assert.NoError(t, br.ValidateDocumento("52998224725"))
	assert.NoError(t, br.ValidateDocumento("11222333000181"))
	assert.Error(t, br.ValidateDocumento("123"))
}

func TestValidateCEP(t *testing.T) {
	assert.NoError(t, br.ValidateCEP("01310-100"))
	assert.NoError(t, br.ValidateCEP("01310100"))
	assert.Error(t, br.ValidateCEP("0131010"))
}

func TestSemAcentos(t *testing.T) {
	assert.Equal(t, "Sao Jose dos Campos", br.SemAcentos("São José dos Campos"))
	assert.Equal(t, "Eletrica predial", br.SemAcentos("Elétrica predial"))
}

func TestCampoProvedor_NormalizaEspacos(t *testing.T) {
	assert.Equal(t, "Instalacao eletrica", br.CampoProvedor("  Instalação   elétrica "))
}

func TestSomenteDigitos(t *testing.T) {
	assert.Equal(t, "11222333000181", br.SomenteDigitos("11.222.333/0001-81"))
}
