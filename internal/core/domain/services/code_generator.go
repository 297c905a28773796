package services

import (
	"math"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/unit"
)

const fallbackSuffixModulo = 10000

// CodeGenerator computes the next unit code under a prefix from the greatest
// code already issued.
//
// The result is advisory. Two callers reading the same last code get the same
// answer, so registration pairs it with the unique (tenant, code) constraint and
// retries on conflict.
//
// Example usage:
//
//	generator := services.NewCodeGenerator(kernel.SystemClock)
//	code, err := generator.Next("EQP", "EQP-0041") // "EQP-0042"
type CodeGenerator struct {
	clock kernel.Clock
}

// NewCodeGenerator creates a generator. clock feeds the fallback suffix used
// when the last code has no numeric suffix.
func NewCodeGenerator(clock kernel.Clock) CodeGenerator {
	if clock == nil {
		clock = kernel.SystemClock
	}
	return CodeGenerator{clock: clock}
}

// Next returns the code following lastCode under prefix.
//
// Parameters:
//   - prefix: code namespace, validated with unit.ValidatePrefix
//   - lastCode: greatest existing code under prefix, empty when none exists
//
// Returns:
//   - "<prefix>-0001" when lastCode is empty
//   - "<prefix>-<suffix+1>" zero-padded to four digits otherwise
//   - a four-digit suffix derived from the clock when lastCode's suffix is not
//     numeric or cannot be incremented
func (g CodeGenerator) Next(prefix string, lastCode string) (string, error) {
	if err := unit.ValidatePrefix(prefix); err != nil {
		return "", err
	}

	if lastCode == "" {
		return unit.FormatCode(prefix, 1), nil
	}

	n, err := unit.ParseCodeSuffix(lastCode)
	if err != nil || n == math.MaxInt {
		return g.fallback(prefix), nil
	}

	return unit.FormatCode(prefix, n+1), nil
}

func (g CodeGenerator) fallback(prefix string) string {
	return unit.FormatCode(prefix, int(g.clock().UnixMilli()%fallbackSuffixModulo))
}
