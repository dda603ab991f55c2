// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatPrice formats a price with two decimals and thousands separators.
func FormatPrice(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%.2f", value)
	parts := strings.Split(str, ".")
	intPart, decPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	result := strings.Join(groups, ",") + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percent change with an explicit sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}
