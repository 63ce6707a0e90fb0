package br

import (
	"fmt"
	"unicode"
)

// pesos do primeiro e segundo dígito verificador do CNPJ (módulo 11, RFB).
var (
	cnpjWeights1 = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ valida os dígitos verificadores de um CNPJ (com ou sem pontuação).
// Aceita "12.345.678/0001-95" ou "12345678000195".
func ValidateCNPJ(doc string) error {
	digits := extractDigits(doc)
	if len(digits) != 14 {
		return fmt.Errorf("br: CNPJ deve ter 14 dígitos, recebidos %d", len(digits))
	}
	if allEqual(digits) {
		return fmt.Errorf("br: CNPJ com todos os dígitos iguais é inválido")
	}
	d1 := cnpjCheckDigit(digits[:12], cnpjWeights1[:])
	if digits[12] != d1 {
		return fmt.Errorf("br: primeiro dígito verificador do CNPJ inválido: esperado %c, recebido %c", d1, digits[12])
	}
	d2 := cnpjCheckDigit(digits[:13], cnpjWeights2[:])
	if digits[13] != d2 {
		return fmt.Errorf("br: segundo dígito verificador do CNPJ inválido: esperado %c, recebido %c", d2, digits[13])
	}
	return nil
}

// ValidateCPF valida os dígitos verificadores de um CPF (com ou sem pontuação).
func ValidateCPF(doc string) error {
	digits := extractDigits(doc)
	if len(digits) != 11 {
		return fmt.Errorf("br: CPF deve ter 11 dígitos, recebidos %d", len(digits))
	}
	if allEqual(digits) {
		return fmt.Errorf("br: CPF com todos os dígitos iguais é inválido")
	}
	for pos := 9; pos <= 10; pos++ {
		var sum int
		for i := 0; i < pos; i++ {
			sum += int(digits[i]-'0') * (pos + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		if int(digits[pos]-'0') != rest {
			return fmt.Errorf("br: dígito verificador do CPF inválido na posição %d", pos+1)
		}
	}
	return nil
}

// ValidateDocumento aceita CPF (11 dígitos) ou CNPJ (14 dígitos).
func ValidateDocumento(doc string) error {
	switch len(extractDigits(doc)) {
	case 11:
		return ValidateCPF(doc)
	case 14:
		return ValidateCNPJ(doc)
	default:
		return fmt.Errorf("br: documento deve ser CPF (11 dígitos) ou CNPJ (14 dígitos)")
	}
}

// ValidateCEP valida o formato do CEP: 8 dígitos, com ou sem hífen.
func ValidateCEP(cep string) error {
	digits := extractDigits(cep)
	if len(digits) != 8 {
		return fmt.Errorf("br: CEP deve ter 8 dígitos, recebidos %d", len(digits))
	}
	return nil
}

// SomenteDigitos devolve apenas os dígitos do documento (formato exigido pelo provedor).
func SomenteDigitos(s string) string {
	return string(extractDigits(s))
}

func cnpjCheckDigit(base []byte, weights []int) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * weights[i]
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + (11 - rest))
}

func allEqual(digits []byte) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
