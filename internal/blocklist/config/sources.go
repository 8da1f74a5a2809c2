package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

// LoadSourceList reads a source configuration file: one locator per line,
// "#" comments and blank lines ignored. A leading byte order mark is
// dropped. Repeated locators keep their first position only.
func LoadSourceList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	var (
		out   []string
		seen  = map[string]struct{}{}
		first = true
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	return out, nil
}
