package utils

import (
	"math"

	"github.com/dustin/go-humanize"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// FormatCurrency formata um valor em dólares com separador de milhar ($1,234.56).
// Apenas 0 ou 2 casas decimais são usadas no painel. Empates são arredondados
// para o par ($2.5 -> $2), já que o humanize arredondaria sempre para cima.
func FormatCurrency(f float64, decimals int) string {
	format := "#,###."
	scale := 1.0
	if decimals > 0 {
		format = "#,###.##"
		scale = 100
	}

	return "$" + humanize.FormatFloat(format, math.RoundToEven(f*scale)/scale)
}
