package utils

import (
	"strings"

	"github.com/miekg/dns"
)

// ReverseLabels returns name with its dot-separated labels in reverse order,
// e.g. "foo.example.com" becomes "com.example.foo". Sorting by this key
// groups names by TLD, then registrable domain, then subdomain.
func ReverseLabels(name string) string {
	labels := dns.SplitDomainName(name)
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, ".")
}
