// Package arith holds the arithmetic helpers reported by the arithmetic
// trigger function.
package arith

import (
	"errors"
	"math"
	"strconv"
)

var ErrDivisionByZero = errors.New("division by zero")

func Sum(a, b int) int {
	return a + b
}

func Multiply(a, b int) int {
	return a * b
}

// Divide returns a / b rounded half to even at ndigits decimal places.
func Divide(a, b float64, ndigits int) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}

	return Round(a/b, ndigits), nil
}

// Round rounds v half to even at ndigits decimal places. Negative ndigits
// round to tens, hundreds and so on.
func Round(v float64, ndigits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	pow := math.Pow(10, float64(ndigits))
	scaled := v * pow
	if math.IsInf(scaled, 0) {
		return v
	}

	return math.RoundToEven(scaled) / pow
}

// FormatNumber renders v with the fewest digits that represent it exactly.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
