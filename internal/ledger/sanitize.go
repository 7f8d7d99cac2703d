package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxRawLen caps untrusted numeric strings before parsing. The extractor
// occasionally hallucinates degenerate tokens (scientific notation, hundreds
// of digits); anything longer than this is garbage.
const maxRawLen = 15

// SanitizeAmount converts an untrusted numeric string from the intent
// extractor into a money value. It strips everything except digits, '.', ','
// and '-', treats a single comma as the decimal separator, rounds to two
// decimal places, and degrades to zero on any parse failure. It never fails.
//
// This is the sole boundary between extractor output and the engine's
// numeric invariants.
func SanitizeAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if len(s) > maxRawLen {
		s = s[:maxRawLen]
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	// A single comma with no dot is a decimal separator ("2500,75");
	// any other comma usage is stripped as grouping noise.
	if strings.Count(cleaned, ",") == 1 && !strings.Contains(cleaned, ".") {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(2)
}

// SanitizeQuantity parses an untrusted quantity string, truncating any
// fractional part. Degrades to zero; callers that need a usable count apply
// their own default (drafts default to 1).
func SanitizeQuantity(raw string) int {
	return int(SanitizeAmount(raw).IntPart())
}
