package services_test

import (
	"math"
	"strconv"
	"testing"
	"time"

	"stockledger/internal/core/domain/services"
	"stockledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_Next(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_123_456)
	generator := services.NewCodeGenerator(func() time.Time { return fixed })

	tests := []struct {
		name     string
		prefix   string
		lastCode string
		expected string
	}{
		{"first code under prefix", "EQP", "", "EQP-0001"},
		{"increments the suffix", "EQP", "EQP-0001", "EQP-0002"},
		{"keeps zero padding", "EQP", "EQP-0099", "EQP-0100"},
		{"grows past four digits", "EQP", "EQP-9999", "EQP-10000"},
		{"continues after five digits", "EQP", "EQP-10000", "EQP-10001"},
		{"prefix with dashes", "SCAF-2", "SCAF-2-0009", "SCAF-2-0010"},
		{"falls back to the clock on garbage", "EQP", "EQP-LEGACY", "EQP-3456"},
		{"falls back to the clock at the largest suffix", "EQP", "EQP-" + strconv.Itoa(math.MaxInt), "EQP-3456"},
		{"falls back to the clock past the int range", "EQP", "EQP-99999999999999999999", "EQP-3456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := generator.Next(tt.prefix, tt.lastCode)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestCodeGenerator_SerializedSequence(t *testing.T) {
	generator := services.NewCodeGenerator(nil)

	last := ""
	for i := 1; i <= 12; i++ {
		code, err := generator.Next("EQP", last)
		require.NoError(t, err)
		last = code
	}

	assert.Equal(t, "EQP-0012", last)
}

func TestCodeGenerator_InvalidPrefix(t *testing.T) {
	generator := services.NewCodeGenerator(nil)

	_, err := generator.Next("EQ P", "")

	require.ErrorIs(t, err, errs.ErrValidation)
}
