package parsers

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// normalizeLine prepares a raw line for classification: strips a byte
// order mark, trims, lower-cases, and converts internationalized names to
// their punycode form.
func normalizeLine(raw string) string {
	line := strings.TrimPrefix(raw, "\uFEFF")
	line = strings.ToLower(strings.TrimSpace(line))
	if isASCII(line) {
		return line
	}
	return toASCIIFields(line)
}

// toASCIIFields converts every whitespace-separated field holding non-ASCII
// runes with IDNA lookup rules. Fields that fail conversion are kept as is
// and will simply not match any rule.
func toASCIIFields(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if isASCII(f) {
			continue
		}
		if a, err := idna.Lookup.ToASCII(f); err == nil {
			fields[i] = strings.ToLower(a)
		}
	}
	return strings.Join(fields, " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
