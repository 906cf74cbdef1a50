package utils

import (
	"fmt"
	"math"
)

// CentsFromEuros converts a decimal euro amount into integer cents.
func CentsFromEuros(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatEuro renders cents like "€1,234.50".
func FormatEuro(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%s.%02d", sign, formatThousand(cents/100), cents%100)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := fmt.Sprintf("%d", n)
	out := make([]byte, 0, len(str)+len(str)/3)
	for i := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, str[i])
	}
	return string(out)
}
