package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domains-blacklist.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSourceList(t *testing.T) {
	path := writeConf(t, "\xEF\xBB\xBF# local additions\n"+
		"local.txt\n"+
		"\n"+
		"   https://example.com/hosts.txt   \n"+
		"# https://disabled.example/list\n"+
		"local.txt\n"+
		"file:/etc/blocklist/extra.txt\r\n")

	got, err := LoadSourceList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"local.txt",
		"https://example.com/hosts.txt",
		"file:/etc/blocklist/extra.txt",
	}, got)
}

func TestLoadSourceList_BOMOnFirstEntry(t *testing.T) {
	got, err := LoadSourceList(writeConf(t, "\xEF\xBB\xBFlocal.txt\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"local.txt"}, got)
}

func TestLoadSourceList_OnlyComments(t *testing.T) {
	got, err := LoadSourceList(writeConf(t, "# nothing here\n\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadSourceList_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.conf")
	_, err := LoadSourceList(missing)
	require.Error(t, err)

	var ce *domain.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, missing, ce.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.False(t, domain.IsSourceFailure(err))
}
