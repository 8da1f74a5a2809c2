package parsers

import (
	"fmt"
	"regexp"

	"github.com/miekg/dns"
)

// Format identifies the list syntax a line was recognized as.
type Format uint8

const (
	// FormatNone means the line matched no rule.
	FormatNone Format = iota
	// FormatTrusted is the permissive token syntax of local whitelist files,
	// optionally prefixed with "=" and allowing "*" wildcards.
	FormatTrusted
	// FormatAdblock is a uBlock/Adblock network rule: "||example.com^$third-party".
	FormatAdblock
	// FormatHostname is a bare hostname on its own line.
	FormatHostname
	// FormatHosts is an /etc/hosts line: "0.0.0.0 example.com".
	FormatHosts
	// FormatQuotedCSV is a quoted CSV row whose second field is the name.
	FormatQuotedCSV
	// FormatCSV is a CSV row leading with the name and carrying a date-like field.
	FormatCSV
	// FormatDnsmasq is a dnsmasq directive: "address=/example.com/0.0.0.0".
	FormatDnsmasq
)

// String returns a stable string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatTrusted:
		return "trusted"
	case FormatAdblock:
		return "adblock"
	case FormatHostname:
		return "hostname"
	case FormatHosts:
		return "hosts"
	case FormatQuotedCSV:
		return "quoted-csv"
	case FormatCSV:
		return "csv"
	case FormatDnsmasq:
		return "dnsmasq"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// namePattern is the accepted domain fragment: at least one dot and an
// alphabetic final label of two or more letters.
const namePattern = `([a-z0-9.-]+\.[a-z]{2,})`

// rule pairs a format with the pattern recognizing it. The first capture
// group of pattern is the extracted name.
type rule struct {
	format  Format
	pattern *regexp.Regexp
}

func (r rule) extract(line string) (string, bool) {
	m := r.pattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// untrustedRules are tried in order, most specific first. Formats overlap,
// so the order is part of the contract.
var untrustedRules = []rule{
	{FormatAdblock, regexp.MustCompile(`^@*\|\|` + namePattern + `\^?(\$(popup|third-party))?$`)},
	{FormatHostname, regexp.MustCompile(`^` + namePattern + `$`)},
	{FormatHosts, regexp.MustCompile(`^[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\s+` + namePattern + `$`)},
	{FormatQuotedCSV, regexp.MustCompile(`^"[^"]+","` + namePattern + `",`)},
	{FormatCSV, regexp.MustCompile(`^` + namePattern + `,.+,[0-9: /-]+,`)},
	{FormatDnsmasq, regexp.MustCompile(`^address=/` + namePattern + `/.`)},
}

var trustedRules = []rule{
	{FormatTrusted, regexp.MustCompile(`^(=?[*a-z0-9.-]+)$`)},
}

var (
	rxComment       = regexp.MustCompile(`^(#|$)`)
	rxInlineComment = regexp.MustCompile(`\s+#.*$`)
)

// Match is a successful classification.
type Match struct {
	Name   string
	Format Format
}

// Classify extracts a name from a single line that has already been
// lower-cased and trimmed. Comment and blank lines, and lines no rule
// recognizes, report ok=false. Trusted selects the permissive whitelist
// syntax instead of the untrusted rule sequence.
func Classify(line string, trusted bool) (Match, bool) {
	if isComment(line) {
		return Match{}, false
	}
	line = stripInlineComment(line)

	rules := untrustedRules
	if trusted {
		rules = trustedRules
	}
	for _, r := range rules {
		name, ok := r.extract(line)
		if !ok {
			continue
		}
		if r.format != FormatTrusted && !isValidName(name) {
			return Match{}, false
		}
		return Match{Name: name, Format: r.format}, true
	}
	return Match{}, false
}

// isComment reports whether line is blank or a whole-line comment.
func isComment(line string) bool {
	return rxComment.MatchString(line)
}

// stripInlineComment removes a trailing "# ..." that follows whitespace.
func stripInlineComment(line string) string {
	return rxInlineComment.ReplaceAllString(line, "")
}

// isValidName applies DNS structural limits the patterns cannot express:
// no empty labels, labels up to 63 octets, names up to 255 octets.
func isValidName(name string) bool {
	if name == "" || name[0] == '.' {
		return false
	}
	_, ok := dns.IsDomainName(name)
	return ok
}
