package retrieval

import (
	"regexp"
	"strings"
)

const (
	schemeFile  = "file"
	schemeHTTP  = "http"
	schemeHTTPS = "https"
)

var rxScheme = regexp.MustCompile(`^[a-zA-Z0-9]+:`)

// NormalizeLocator turns a configured source into a URL. Entries without a
// scheme are local paths and get the "file:" scheme.
func NormalizeLocator(source string) string {
	source = strings.TrimSpace(source)
	if source == "" || rxScheme.MatchString(source) {
		return source
	}
	return schemeFile + ":" + source
}

// Scheme returns the lower-cased scheme of a normalized locator.
func Scheme(locator string) string {
	i := strings.IndexByte(locator, ':')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(locator[:i])
}

// IsLocal reports whether source refers to a local file.
func IsLocal(source string) bool {
	return Scheme(NormalizeLocator(source)) == schemeFile
}

// filePath extracts the filesystem path from a file locator. Both
// "file:relative/path" and "file:///absolute/path" forms are accepted; a
// host part ("file://localhost/path") is ignored.
func filePath(locator string) string {
	p := locator[len(schemeFile)+1:]
	if !strings.HasPrefix(p, "//") {
		return p
	}
	p = p[2:]
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[i:]
	}
	return p
}
