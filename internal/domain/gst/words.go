package gst

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asha-billing/internal/domain"
)

// MaxWordsAmount es el mayor monto que la agrupación india de abajo puede escribir
// (99,99,99,999: nueve dígitos, dos de ellos para crore).
const MaxWordsAmount int64 = 999_999_999

var (
	ones = [...]string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tens = [...]string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
	maxWords = decimal.NewFromInt(MaxWordsAmount)
)

// AmountInWords escribe en letras la parte entera en rupias de amount. La fracción se descarta.
func AmountInWords(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", domain.ErrInvalidInput
	}
	whole := amount.Truncate(0)
	if whole.GreaterThan(maxWords) {
		return "", domain.ErrAmountOverflow
	}
	return IntegerInWords(whole.IntPart())
}

// IntegerInWords escribe n en el sistema de numeración indio:
//
//	28320     -> "Twenty Eight Thousand Three Hundred and Twenty Only"
//	10500000 -> "One Crore Five Lakh Only"
//
// Cero se escribe "Zero Only".
func IntegerInWords(n int64) (string, error) {
	switch {
	case n < 0:
		return "", domain.ErrInvalidInput
	case n > MaxWordsAmount:
		return "", domain.ErrAmountOverflow
	case n == 0:
		return "Zero Only", nil
	}

	crore := n / 10_000_000
	lakh := n / 100_000 % 100
	thousand := n / 1_000 % 100
	hundred := n / 100 % 10
	rest := n % 100

	words := make([]string, 0, 12)
	group := func(g int64, suffix string) {
		if g == 0 {
			return
		}
		words = append(words, twoDigits(g), suffix)
	}
	group(crore, "Crore")
	group(lakh, "Lakh")
	group(thousand, "Thousand")
	group(hundred, "Hundred")
	if rest != 0 {
		if len(words) > 0 {
			words = append(words, "and")
		}
		words = append(words, twoDigits(rest))
	}
	words = append(words, "Only")
	return strings.Join(words, " "), nil
}

// twoDigits escribe 1..99.
func twoDigits(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if u := n % 10; u != 0 {
		return tens[n/10] + " " + ones[u]
	}
	return tens[n/10]
}
