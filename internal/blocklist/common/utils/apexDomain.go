package utils

import "golang.org/x/net/publicsuffix"

// GetApexDomain returns the registrable domain (eTLD+1) of name, or name
// itself when it has none.
func GetApexDomain(name string) string {
	name = CanonicalName(name)
	apexDomain, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		apexDomain = name
	}
	return apexDomain
}

// IsPublicSuffix reports whether name is itself a public suffix such as
// "com", "co.uk" or "github.io". Whitelisting one of these suppresses
// every name beneath it.
func IsPublicSuffix(name string) bool {
	name = CanonicalName(name)
	if name == "" {
		return false
	}
	suffix, _ := publicsuffix.PublicSuffix(name)
	return suffix == name
}
