package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
	"github.com/haukened/rr-blocklist/internal/blocklist/repos/parsers"
)

func TestRender_SingleSource(t *testing.T) {
	res := domain.AggregationResult{
		Kind: domain.ListBlacklist,
		Sources: []domain.SourceResult{{
			Source: "file:local.txt",
			Kept:   []string{"ads.example.com", "tracker.example.net"},
		}},
	}

	want := "\n\n########## Blacklist from file:local.txt ##########\n" +
		"ads.example.com\n" +
		"tracker.example.net\n"
	assert.Equal(t, want, string(Render(nil, res)))
}

func TestRender_CountersAndTimeRestricted(t *testing.T) {
	res := domain.AggregationResult{
		Kind: domain.ListBlacklist,
		Sources: []domain.SourceResult{
			{Source: "https://a.example/list", Kept: []string{"ads.example.com"}, Whitelisted: 2},
			{Source: "https://b.example/list", Ignored: 3},
			{Source: "https://c.example/list", Kept: []string{"x.example.org"}, Ignored: 1, Whitelisted: 1},
		},
	}
	tr := domain.NewNameSet("games.example.net", "social.example.com")

	want := "########## Time-based blacklist ##########\n" +
		"social.example.com\n" +
		"games.example.net\n" +
		"\n\n########## Blacklist from https://a.example/list ##########\n" +
		"# Ignored entries due to the whitelist: 2\n" +
		"ads.example.com\n" +
		"\n\n########## Blacklist from https://b.example/list ##########\n" +
		"# Ignored duplicates: 3\n" +
		"\n\n########## Blacklist from https://c.example/list ##########\n" +
		"# Ignored duplicates: 1\n" +
		"# Ignored entries due to the whitelist: 1\n" +
		"x.example.org\n"
	assert.Equal(t, want, string(Render(tr, res)))
}

func TestRender_WhitelistHeader(t *testing.T) {
	res := domain.AggregationResult{
		Kind:    domain.ListWhitelist,
		Sources: []domain.SourceResult{{Source: "file:allow.txt", Kept: []string{"good.example.com"}}},
	}
	out := string(Render(domain.NewNameSet(), res))
	assert.Contains(t, out, "########## Whitelist from file:allow.txt ##########\n")
	assert.NotContains(t, out, "Time-based")
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, Render(nil, domain.AggregationResult{}))
}

func TestRender_RoundTrip(t *testing.T) {
	res := domain.AggregationResult{
		Kind: domain.ListBlacklist,
		Sources: []domain.SourceResult{
			{Source: "file:one.txt", Kept: []string{"a.com", "c.com", "b.net"}, Ignored: 4},
			{Source: "https://two.example/hosts", Kept: []string{"deep.sub.example.org"}, Whitelisted: 1},
		},
	}

	names, err := parsers.ParseList(bytes.NewReader(Render(nil, res)), "roundtrip", false, log.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, res.KeptNames(), names)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite(t *testing.T) {
	res := domain.AggregationResult{Sources: []domain.SourceResult{{Source: "s", Kept: []string{"a.com"}}}}

	var sb strings.Builder
	require.NoError(t, Write(&sb, nil, res))
	assert.Equal(t, string(Render(nil, res)), sb.String())

	assert.EqualError(t, Write(failingWriter{}, nil, res), "disk full")
}
