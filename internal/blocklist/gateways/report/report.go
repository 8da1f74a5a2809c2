package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

const timeRestrictedHeader = "########## Time-based blacklist ##########\n"

// Write renders an aggregation result: the time-restricted names first,
// when there are any, then one section per source in declaration order.
func Write(w io.Writer, timeRestricted domain.NameSet, res domain.AggregationResult) error {
	_, err := w.Write(Render(timeRestricted, res))
	return err
}

// Render returns the report as bytes.
func Render(timeRestricted domain.NameSet, res domain.AggregationResult) []byte {
	var buf bytes.Buffer

	if timeRestricted.Len() > 0 {
		buf.WriteString(timeRestrictedHeader)
		for _, name := range timeRestricted.Sorted() {
			buf.WriteString(name)
			buf.WriteByte('\n')
		}
	}

	for _, src := range res.Sources {
		fmt.Fprintf(&buf, "\n\n########## %s from %s ##########\n", res.Kind.Title(), src.Source)
		if src.Ignored > 0 {
			fmt.Fprintf(&buf, "# Ignored duplicates: %d\n", src.Ignored)
		}
		if src.Whitelisted > 0 {
			fmt.Fprintf(&buf, "# Ignored entries due to the whitelist: %d\n", src.Whitelisted)
		}
		for _, name := range src.Kept {
			buf.WriteString(name)
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}
