// Package gstin valida números de identificación GST de India.
package gstin

import (
	"fmt"
	"regexp"
	"strings"
)

// alphabet asigna a cada carácter su valor en el cálculo del dígito de control.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var pattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Validate verifica el formato de 15 caracteres (código de estado, PAN, número
// de entidad, "Z", dígito de control) y el dígito de control. La entrada ya debe estar en mayúsculas.
func Validate(gstin string) error {
	if !pattern.MatchString(gstin) {
		return fmt.Errorf("gstin: %q does not have the GSTIN layout", gstin)
	}
	expected, err := CheckDigit(gstin[:14])
	if err != nil {
		return err
	}
	if gstin[14] != expected {
		return fmt.Errorf("gstin: invalid check digit: expected %c, got %c", expected, gstin[14])
	}
	return nil
}

// CheckDigit calcula el carácter 15 a partir de los primeros 14. Las posiciones
// impares (desde 1) pesan 1 y las pares 2; cada producto aporta su cociente
// en base 36 más el resto.
func CheckDigit(first14 string) (byte, error) {
	if len(first14) != 14 {
		return 0, fmt.Errorf("gstin: need 14 characters to compute the check digit, got %d", len(first14))
	}
	sum := 0
	for i := 0; i < 14; i++ {
		v := strings.IndexByte(alphabet, first14[i])
		if v < 0 {
			return 0, fmt.Errorf("gstin: invalid character %q", first14[i])
		}
		p := v * (1 + i%2)
		sum += p/36 + p%36
	}
	return alphabet[(36-sum%36)%36], nil
}

// StateCode devuelve el prefijo de estado de dos dígitos ("06" es Haryana).
func StateCode(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}
