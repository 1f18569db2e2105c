package numutil

import (
	"strconv"
	"strings"
)

// IntWithCommas returns a string representation of an integer with
// thousands separators.
//
// Example:
//
//	12345 -> "12,345"
func IntWithCommas(i int64) string {
	digits := strconv.FormatInt(i, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}

	out := digits[:head]
	for rest := digits[head:]; len(rest) > 0; rest = rest[3:] {
		out += "," + rest[:3]
	}
	return sign + out
}
