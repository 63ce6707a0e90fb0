package br

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeAcentos decompõe em NFD e descarta as marcas combinantes (acentos, til, cedilha vira c).
var removeAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SemAcentos devolve o texto sem acentuação. O schema da NF-e/NFS-e rejeita
// caracteres acentuados em vários campos (xMun, xLgr, xNome).
func SemAcentos(s string) string {
	out, _, err := transform.String(removeAcentos, s)
	if err != nil {
		return s
	}
	return out
}

// CampoProvedor normaliza um texto livre para envio ao provedor fiscal:
// sem acentos, sem espaços duplicados, aparado.
func CampoProvedor(s string) string {
	return strings.Join(strings.Fields(SemAcentos(s)), " ")
}
