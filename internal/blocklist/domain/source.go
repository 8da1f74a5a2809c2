package domain

import "fmt"

// ListKind distinguishes the two aggregation passes of a run.
type ListKind uint8

const (
	// ListBlacklist is the pass producing the final block list.
	ListBlacklist ListKind = iota
	// ListWhitelist is the pass producing the whitelist artifact.
	ListWhitelist
)

// String returns a stable string representation of the list kind.
func (k ListKind) String() string {
	switch k {
	case ListBlacklist:
		return "blacklist"
	case ListWhitelist:
		return "whitelist"
	default:
		return fmt.Sprintf("ListKind(%d)", k)
	}
}

// Title is the capitalized label used in report headers.
func (k ListKind) Title() string {
	switch k {
	case ListWhitelist:
		return "Whitelist"
	default:
		return "Blacklist"
	}
}

// Document is decoded text retrieved from one source.
type Document struct {
	Source   string // locator as declared
	Content  string // decoded UTF-8 text
	Trusted  bool   // true only for local file sources
	Encoding string // detected encoding name
}

// SourceList is one fetched document reduced to the names extracted from it.
type SourceList struct {
	Source  string
	Trusted bool
	Names   NameSet
}

// SourceResult is the aggregation outcome for a single source.
type SourceResult struct {
	Source      string
	Kept        []string // sorted by reversed labels
	Ignored     int      // duplicates of names already covered
	Whitelisted int      // suppressed by the whitelist
}

// AggregationResult holds per-source outcomes in declaration order.
// It is built once per pass and only read afterwards.
type AggregationResult struct {
	Kind    ListKind
	Sources []SourceResult
	Skipped []string // sources whose retrieval failed under ignore-failure mode
}

// KeptNames returns every kept name across all sources.
func (r AggregationResult) KeptNames() NameSet {
	out := make(NameSet)
	for _, s := range r.Sources {
		for _, n := range s.Kept {
			out[n] = struct{}{}
		}
	}
	return out
}

// Totals sums the per-source counters.
func (r AggregationResult) Totals() (kept, ignored, whitelisted int) {
	for _, s := range r.Sources {
		kept += len(s.Kept)
		ignored += s.Ignored
		whitelisted += s.Whitelisted
	}
	return kept, ignored, whitelisted
}
