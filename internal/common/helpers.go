package common

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	EOSDecimals = 4 // EOS token quantities carry 4 decimals
	BTCDecimals = 8 // BTC has 8 decimals (satoshi)

	// MaxAssetAmount is the largest amount, in units, the chain accepts in an asset
	MaxAssetAmount = 1<<62 - 1
)

// FormatEOSQuantity renders amount as an asset string, e.g. "5" -> "5.0000 EOS"
func FormatEOSQuantity(amount, symbol string) (string, error) {
	units, err := parseWithDecimals(amount, EOSDecimals)
	if err != nil {
		return "", fmt.Errorf("invalid amount '%s': %w", amount, err)
	}
	if units > MaxAssetAmount {
		return "", fmt.Errorf("amount '%s' exceeds the maximum asset amount", amount)
	}
	return formatWithDecimals(units, EOSDecimals) + " " + symbol, nil
}

// ParseEOSQuantity parses an asset string like "1.2500 EOS" into units and symbol
func ParseEOSQuantity(quantity string) (units uint64, precision int, symbol string, err error) {
	parts := strings.Fields(quantity)
	if len(parts) != 2 {
		return 0, 0, "", fmt.Errorf("invalid asset '%s'", quantity)
	}
	precision = 0
	if i := strings.IndexByte(parts[0], '.'); i >= 0 {
		precision = len(parts[0]) - i - 1
	}
	units, err = parseWithDecimals(parts[0], precision)
	if err != nil {
		return 0, 0, "", err
	}
	return units, precision, parts[1], nil
}

// SatoshiToBTC converts satoshi to BTC string without float precision loss
func SatoshiToBTC(sat uint64) string {
	return formatWithDecimals(sat, BTCDecimals)
}

// BTCToSatoshi converts BTC string to satoshi without float precision loss
func BTCToSatoshi(btc string) (uint64, error) {
	return parseWithDecimals(btc, BTCDecimals)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 4) = "2498.1836"
func formatWithDecimals(value uint64, decimals int) string {
	s := fmt.Sprintf("%d", value)
	if decimals == 0 {
		return s
	}

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("0.0249", 4) = 249
func parseWithDecimals(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")

	if len(parts) == 1 {
		n, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, err
		}
		for i := 0; i < decimals; i++ {
			hi, lo := bits.Mul64(n, 10)
			if hi != 0 {
				return 0, fmt.Errorf("value out of range")
			}
			n = lo
		}
		return n, nil
	}

	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	if whole == "" {
		whole = "0"
	}
	frac := parts[1]

	// Pad or truncate fractional part to exact decimals
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	return strconv.ParseUint(whole+frac, 10, 64)
}
