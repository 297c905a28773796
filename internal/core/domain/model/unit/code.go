package unit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"stockledger/internal/pkg/errs"
)

// DefaultCodePrefix is used when a unit is registered without a prefix.
const DefaultCodePrefix = "EQP"

const (
	maxPrefixLength = 32
	maxCodeLength   = 64
	codeSeparator   = "-"
	minSuffixDigits = 4
)

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ValidatePrefix checks that prefix is 1-32 characters of letters, digits and dashes.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return errs.NewValueIsRequiredError("prefix")
	}
	if len(prefix) > maxPrefixLength {
		return errs.NewValueIsOutOfRangeError("prefix length", len(prefix), 1, maxPrefixLength)
	}
	if !prefixPattern.MatchString(prefix) {
		return errs.NewValueIsInvalidErrorWithCause("prefix", fmt.Errorf("%q may only contain letters, digits and dashes", prefix))
	}
	return nil
}

// ValidateCode checks an explicitly supplied unit code.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errs.NewValueIsRequiredError("code")
	}
	if len(code) > maxCodeLength {
		return errs.NewValueIsOutOfRangeError("code length", len(code), 1, maxCodeLength)
	}
	return nil
}

// FormatCode renders "<prefix>-NNNN" with at least four digits.
func FormatCode(prefix string, n int) string {
	return fmt.Sprintf("%s%s%0*d", prefix, codeSeparator, minSuffixDigits, n)
}

// CodePattern returns the LIKE pattern matching every code under prefix.
func CodePattern(prefix string) string {
	return prefix + codeSeparator + "%"
}

// ParseCodeSuffix returns the number after the last dash of code.
func ParseCodeSuffix(code string) (int, error) {
	idx := strings.LastIndex(code, codeSeparator)
	if idx < 0 || idx == len(code)-1 {
		return 0, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q has no numeric suffix", code))
	}
	n, err := strconv.Atoi(code[idx+1:])
	if err != nil || n < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q has no numeric suffix", code))
	}
	return n, nil
}
