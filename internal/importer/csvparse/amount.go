package csvparse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a formatted amount into cents. With a decimal comma
// "1.234,56" is 123456; with a decimal point "1,234.56" is 123456. A currency
// prefix such as "R$" or "€" is ignored.
func parseAmount(s string, decimalSep rune) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.TrimPrefix(clean, "€")
	clean = strings.ReplaceAll(clean, " ", "")

	if decimalSep == ',' {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
