package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/config"
)

func quietLogs(t *testing.T) {
	t.Helper()
	orig := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(orig) })
}

func TestRun_Help(t *testing.T) {
	assert.Equal(t, 0, run([]string{"--help"}))
}

func TestRun_BadFlag(t *testing.T) {
	assert.Equal(t, 1, run([]string{"--timeout", "never"}))
}

func TestRun_MissingConfig(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	code := run([]string{
		"-c", filepath.Join(dir, "missing.conf"),
		"-w", "",
		"-r", "",
		"-o", filepath.Join(dir, "blacklist.txt"),
		"--log-level", "error",
	})
	assert.Equal(t, 1, code)
}

func TestRun_EndToEnd(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()

	local := filepath.Join(dir, "local.txt")
	require.NoError(t, os.WriteFile(local, []byte("||ads.example.com^\n# comment\n1.2.3.4 tracker.example.net\n"), 0o644))
	conf := filepath.Join(dir, "domains-blacklist.conf")
	require.NoError(t, os.WriteFile(conf, []byte(local+"\n"), 0o644))
	timeRestricted := filepath.Join(dir, "time.txt")
	require.NoError(t, os.WriteFile(timeRestricted, []byte("social.example.com\n"), 0o644))
	allow := filepath.Join(dir, "allow.txt")
	require.NoError(t, os.WriteFile(allow, []byte("tracker.example.net\n"), 0o644))
	wlConf := filepath.Join(dir, "domains-whitelist.conf")
	require.NoError(t, os.WriteFile(wlConf, []byte(allow+"\n"), 0o644))

	out := filepath.Join(dir, "blacklist.txt")
	wlOut := filepath.Join(dir, "whitelist-domains.txt")
	metricsFile := filepath.Join(dir, "blocklist.prom")

	code := run([]string{
		"-c", conf,
		"-w", wlConf,
		"-r", timeRestricted,
		"-o", out,
		"--whitelist-output", wlOut,
		"--metrics-file", metricsFile,
		"--log-level", "error",
	})
	require.Equal(t, 0, code)

	bl, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "########## Time-based blacklist ##########\n"+
		"social.example.com\n"+
		"\n\n########## Blacklist from "+local+" ##########\n"+
		"# Ignored entries due to the whitelist: 1\n"+
		"ads.example.com\n", string(bl))

	wl, err := os.ReadFile(wlOut)
	require.NoError(t, err)
	assert.Contains(t, string(wl), "########## Whitelist from "+allow+" ##########\ntracker.example.net\n")

	_, err = os.Stat(metricsFile)
	assert.NoError(t, err)
}

func TestBuildApplication(t *testing.T) {
	quietLogs(t)
	cfg := config.DEFAULT_APP_CONFIG
	app, err := buildApplication(&cfg)
	require.NoError(t, err)
	assert.NotNil(t, app.generator)
	assert.NotNil(t, app.cache)
}

func TestBuildApplication_InvalidCacheSize(t *testing.T) {
	quietLogs(t)
	cfg := config.DEFAULT_APP_CONFIG
	cfg.CacheSize = 0
	_, err := buildApplication(&cfg)
	assert.Error(t, err)
}
