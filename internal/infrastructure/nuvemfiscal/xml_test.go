package nuvemfiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
)

const procNFeAutorizada = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe>
    <infNFe Id="NFe35260311222333000181550010000000011000000010" versao="4.00"></infNFe>
  </NFe>
  <protNFe versao="4.00">
    <infProt>
      <tpAmb>2</tpAmb>
      <chNFe>35260311222333000181550010000000011000000010</chNFe>
      <dhRecbto>2026-03-15T10:31:02-03:00</dhRecbto>
      <nProt>135260000000001</nProt>
      <cStat>100</cStat>
      <xMotivo>Autorizado o uso da NF-e</xMotivo>
    </infProt>
  </protNFe>
</nfeProc>`

func TestParseAutorizacaoXML_ExtraiProtocolo(t *testing.T) {
	aut, err := nuvemfiscal.ParseAutorizacaoXML([]byte(procNFeAutorizada))
	require.NoError(t, err)

	assert.Equal(t, "35260311222333000181550010000000011000000010", aut.ChaveAcesso)
	assert.Equal(t, "135260000000001", aut.Protocolo)
	assert.Equal(t, "2026-03-15T10:31:02-03:00", aut.DataRecbto)
}

func TestParseAutorizacaoXML_InfProtSolto(t *testing.T) {
	xml := `<retConsSitNFe><infProt><chNFe>35260311222333000181550010000000011000000010</chNFe></infProt></retConsSitNFe>`

	aut, err := nuvemfiscal.ParseAutorizacaoXML([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, "35260311222333000181550010000000011000000010", aut.ChaveAcesso)
	assert.Empty(t, aut.Protocolo)
}

func TestParseAutorizacaoXML_SemProtocolo(t *testing.T) {
	xml := `<nfeProc><NFe><infNFe></infNFe></NFe></nfeProc>`

	_, err := nuvemfiscal.ParseAutorizacaoXML([]byte(xml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infProt")
}

func TestParseAutorizacaoXML_SemChave(t *testing.T) {
	xml := `<nfeProc><protNFe><infProt><nProt>123</nProt></infProt></protNFe></nfeProc>`

	_, err := nuvemfiscal.ParseAutorizacaoXML([]byte(xml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chNFe")
}

func TestParseAutorizacaoXML_NaoEhXML(t *testing.T) {
	_, err := nuvemfiscal.ParseAutorizacaoXML([]byte(`{"nao": "xml"}`))
	require.Error(t, err)
}
