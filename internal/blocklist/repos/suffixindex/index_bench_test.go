package suffixindex_test

import (
	"fmt"
	"testing"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
	"github.com/haukened/rr-blocklist/internal/blocklist/repos/suffixindex"
	"github.com/haukened/rr-blocklist/internal/blocklist/repos/suffixindex/bloom"
)

// helper: n distinct names under suffix
func benchNames(n int, suffix string) domain.NameSet {
	out := make(domain.NameSet, n)
	for i := 0; i < n; i++ {
		out.Add(fmt.Sprintf("p%05d.%s", i, suffix))
	}
	return out
}

func BenchmarkIndex_HasSuffix_Miss(b *testing.B) {
	names := benchNames(50000, "ads.example.com")
	for _, tc := range []struct {
		name    string
		factory suffixindex.BloomFactory
	}{
		{"map_only", nil},
		{"bloom", bloom.NewFactory()},
	} {
		b.Run(tc.name, func(b *testing.B) {
			ix := suffixindex.New(names, uint64(len(names)), tc.factory, 0.01)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = ix.HasSuffix("a.b.c.d.tracker.example.net")
			}
		})
	}
}

func BenchmarkIndex_HasSuffix_Hit(b *testing.B) {
	names := benchNames(50000, "example.org")
	names.Add("example.org")
	ix := suffixindex.New(names, uint64(len(names)), bloom.NewFactory(), 0.01)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ix.HasSuffix("deep.sub.example.org")
	}
}

func BenchmarkHasSuffix_NameSet(b *testing.B) {
	names := benchNames(50000, "example.org")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = suffixindex.HasSuffix(names, "a.b.c.d.tracker.example.net")
	}
}
