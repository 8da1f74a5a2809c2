package parsers

import (
	"bufio"
	"reflect"
	"strings"
	"testing"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

func TestParseList_MixedFormats(t *testing.T) {
	input := `
# Title: mixed list
||ads.example.com^
@@||cdn.example.com^$third-party
tracker.example.net   # inline comment
0.0.0.0 Malware.Example.ORG
"12","phish.example.info","2019-01-01",
bad.example.biz,phishing,2019-01-01 10:00:00,
address=/dnsmasq.example.com/0.0.0.0
!adblock comment
::1 localhost
ads.example.com
`
	got, err := ParseList(strings.NewReader(input), "mixed", false, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}

	want := domain.NewNameSet(
		"ads.example.com",
		"cdn.example.com",
		"tracker.example.net",
		"malware.example.org",
		"phish.example.info",
		"bad.example.biz",
		"dnsmasq.example.com",
	)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseList() = %v, want %v", got.Sorted(), want.Sorted())
	}
}

func TestParseList_Trusted(t *testing.T) {
	input := "example.com\n=exact.example.org\n*.wild.example.net\n||ads.example.com^\n# comment\n"
	got, err := ParseList(strings.NewReader(input), "file:whitelist.txt", true, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	want := domain.NewNameSet("example.com", "=exact.example.org", "*.wild.example.net")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseList(trusted) = %v, want %v", got.Sorted(), want.Sorted())
	}
}

func TestParseList_SpecScenarioContent(t *testing.T) {
	input := "||ads.example.com^\n# comment\n1.2.3.4 tracker.example.net\n"
	got, err := ParseList(strings.NewReader(input), "file:local.txt", false, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	if !reflect.DeepEqual(got.Sorted(), []string{"ads.example.com", "tracker.example.net"}) {
		t.Fatalf("ParseList() = %v", got.Sorted())
	}
}

func TestParseList_Idempotent(t *testing.T) {
	input := "||a.example.com^\nb.example.com\n0.0.0.0 c.example.com\nnot a name\n"
	first, err := ParseList(strings.NewReader(input), "x", false, log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseList(strings.NewReader(input), "x", false, log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse not idempotent: %v vs %v", first, second)
	}
}

func TestParseList_CRLFAndBOM(t *testing.T) {
	input := "\uFEFFads.example.com\r\ntracker.example.net\r\n"
	got, err := ParseList(strings.NewReader(input), "crlf", false, log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 || !got.Has("ads.example.com") || !got.Has("tracker.example.net") {
		t.Fatalf("unexpected names: %v", got.Sorted())
	}
}

func TestParseList_Empty(t *testing.T) {
	got, err := ParseList(strings.NewReader(""), "empty", false, log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Len() != 0 {
		t.Fatalf("expected empty non-nil set, got %v", got)
	}
}

func TestParseList_LineTooLong(t *testing.T) {
	input := strings.Repeat("a", maxLineLength+10) + ".com\n"
	_, err := ParseList(strings.NewReader(input), "huge", false, log.NewNoopLogger())
	if err != bufio.ErrTooLong {
		t.Fatalf("expected bufio.ErrTooLong, got %v", err)
	}
}
