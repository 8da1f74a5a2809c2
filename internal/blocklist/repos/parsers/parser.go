package parsers

import (
	"bufio"
	"io"

	logpkg "github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

// maxLineLength bounds a single scanned line; longer lines abort the parse.
const maxLineLength = 1 << 20

// ParseList reads a list document line by line and returns the set of names
// extracted from it.
//
// Behavior:
// - Each line is trimmed, lower-cased and IDN-converted before classification
// - Blank lines and lines starting with '#' are skipped
// - Inline comments ("  # ...") are stripped
// - trusted selects the permissive whitelist syntax; otherwise the untrusted
//   rule sequence is tried in its fixed order
// - Lines matching no rule are dropped silently; they are not errors
// - Duplicates collapse through set semantics
func ParseList(r io.Reader, source string, trusted bool, logger logpkg.Logger) (domain.NameSet, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	names := make(domain.NameSet)
	logger.Debug(map[string]any{"source": source, "trusted": trusted}, "parse_list_start")

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := normalizeLine(scanner.Text())

		if isComment(line) {
			logger.Debug(map[string]any{"line": lineNum}, "parse_skip_comment")
			continue
		}

		m, ok := Classify(line, trusted)
		if !ok {
			logger.Debug(map[string]any{"line": lineNum, "raw": line}, "parse_skip_no_match")
			continue
		}

		if !names.Add(m.Name) {
			logger.Debug(map[string]any{"line": lineNum, "name": m.Name}, "parse_skip_duplicate")
			continue
		}
		logger.Debug(map[string]any{"line": lineNum, "name": m.Name, "format": m.Format.String()}, "parse_emit_name")
	}

	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"source": source, "error": err.Error()}, "parse_list_scan_error")
		return nil, err
	}

	logger.Debug(map[string]any{"source": source, "count": names.Len()}, "parse_list_done")
	return names, nil
}
