package function

import (
	"fmt"
	"log/slog"

	"github.com/angeloszaimis/trigger-functions/internal/arith"
	"github.com/angeloszaimis/trigger-functions/internal/metrics"
)

const ArithmeticName = "greet-arithmetic"

// Operands are the two numbers reported by the arithmetic function.
type Operands struct {
	A       int
	B       int
	NDigits int
}

// ArithmeticReport renders sum, product and rounded quotient of the operands.
func ArithmeticReport(ops Operands) (string, error) {
	quotient, err := arith.Divide(float64(ops.A), float64(ops.B), ops.NDigits)
	if err != nil {
		return "", fmt.Errorf("divide %d by %d: %w", ops.A, ops.B, err)
	}

	return fmt.Sprintf(
		"Hi! The sum of %d and %d is %d.\nThe product of %d and %d is %d.\nThe division of %d and %d is %s.",
		ops.A, ops.B, arith.Sum(ops.A, ops.B),
		ops.A, ops.B, arith.Multiply(ops.A, ops.B),
		ops.A, ops.B, arith.FormatNumber(quotient),
	), nil
}

func NewArithmetic(ops Operands, opts Options, logger *slog.Logger, collector *metrics.Collector) *Function {
	return New(ArithmeticName, func() (string, error) {
		return ArithmeticReport(ops)
	}, opts, logger, collector)
}
