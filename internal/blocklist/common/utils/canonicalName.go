package utils

import "strings"

// CanonicalName lower-cases name, trims surrounding space and drops any
// trailing root dots. List entries are never fully qualified.
func CanonicalName(name string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(name)), ".")
}
