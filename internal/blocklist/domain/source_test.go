package domain

import "testing"

func TestListKind_String(t *testing.T) {
	if ListBlacklist.String() != "blacklist" || ListWhitelist.String() != "whitelist" {
		t.Fatalf("unexpected names: %q %q", ListBlacklist, ListWhitelist)
	}
	if got := ListKind(9).String(); got != "ListKind(9)" {
		t.Fatalf("unknown kind String() = %q", got)
	}
	if ListBlacklist.Title() != "Blacklist" || ListWhitelist.Title() != "Whitelist" {
		t.Fatal("unexpected titles")
	}
}

func TestAggregationResult_KeptNamesAndTotals(t *testing.T) {
	r := AggregationResult{
		Kind: ListBlacklist,
		Sources: []SourceResult{
			{Source: "a", Kept: []string{"ads.example.com"}, Ignored: 2},
			{Source: "b", Kept: []string{"example.net", "tracker.example.org"}, Whitelisted: 1},
		},
	}

	kept := r.KeptNames()
	if kept.Len() != 3 || !kept.Has("example.net") {
		t.Fatalf("KeptNames() = %v", kept)
	}

	k, i, w := r.Totals()
	if k != 3 || i != 2 || w != 1 {
		t.Fatalf("Totals() = %d,%d,%d want 3,2,1", k, i, w)
	}
}
