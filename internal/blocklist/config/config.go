package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix scopes the environment variables read by Load.
const envPrefix = "BLOCKLIST_"

// AppConfig holds configuration values parsed from defaults, environment
// variables and command-line flags, in that order of precedence.
type AppConfig struct {
	// Config is the file listing blacklist sources, one per line.
	Config string `koanf:"config" validate:"required"`

	// Whitelist is the file listing whitelist sources. Empty disables the whitelist pass.
	Whitelist string `koanf:"whitelist"`

	// TimeRestricted is the locator of the time-restricted name list. Empty disables it.
	TimeRestricted string `koanf:"time-restricted" validate:"omitempty,locator"`

	// IgnoreRetrievalFailure downgrades per-source failures to warnings.
	IgnoreRetrievalFailure bool `koanf:"ignore-retrieval-failure"`

	// Timeout bounds each retrieval, in seconds.
	Timeout int `koanf:"timeout" validate:"gte=1"`

	// Output is where the final block list is written.
	Output string `koanf:"output" validate:"required"`

	// WhitelistOutput is where the whitelist pass result is written.
	WhitelistOutput string `koanf:"whitelist-output" validate:"required"`

	UserAgent string `koanf:"user-agent" validate:"required"`

	// Concurrency is the number of sources fetched in parallel.
	Concurrency int `koanf:"concurrency" validate:"gte=1,lte=64"`

	// CacheSize bounds the number of fetched documents kept for the run.
	CacheSize int `koanf:"cache-size" validate:"gte=1"`

	// MetricsFile, when set, receives run metrics in Prometheus text format.
	MetricsFile string `koanf:"metrics-file"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log-level" validate:"required,oneof=debug info warn error"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AppConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// DEFAULT_APP_CONFIG defines the default settings: the conventional
// configuration file names in the working directory and a 30 second
// retrieval timeout.
var DEFAULT_APP_CONFIG = AppConfig{
	Config:                 "domains-blacklist.conf",
	Whitelist:              "domains-whitelist.conf",
	TimeRestricted:         "domains-time-restricted.txt",
	IgnoreRetrievalFailure: false,
	Timeout:                30,
	Output:                 "blacklist.txt",
	WhitelistOutput:        "whitelist-domains.txt",
	UserAgent:              "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit Chrome Safari",
	Concurrency:            4,
	CacheSize:              64,
	MetricsFile:            "",
	Env:                    "prod",
	LogLevel:               "info",
}

var rxLocatorScheme = regexp.MustCompile(`^([a-zA-Z0-9]+):`)

// validLocator accepts a bare path or an http, https or file URL.
func validLocator(fl validator.FieldLevel) bool {
	loc := strings.TrimSpace(fl.Field().String())
	if loc == "" {
		return false
	}
	m := rxLocatorScheme.FindStringSubmatch(loc)
	if m == nil {
		return true
	}
	switch strings.ToLower(m[1]) {
	case "http", "https", "file":
		return len(loc) > len(m[0])
	default:
		return false
	}
}

// envLoader loads environment variables with the prefix "BLOCKLIST_".
// BLOCKLIST_TIME_RESTRICTED maps to the "time-restricted" key.
// It can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			key = strings.ReplaceAll(key, "_", "-")
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// flagLoader loads the flags explicitly set on the command line, so flag
// defaults never mask values coming from the environment.
var flagLoader = func(k *koanf.Koanf, fs *pflag.FlagSet) error {
	set := map[string]any{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = f.Value.String()
	})
	return k.Load(confmap.Provider(set, "."), nil)
}

// registerValidation registers the "locator" tag with the provided validator.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("locator", validLocator)
}

// NewFlagSet declares the command-line surface. Defaults shown in the
// usage text come from DEFAULT_APP_CONFIG.
func NewFlagSet(name string) *pflag.FlagSet {
	d := DEFAULT_APP_CONFIG
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", d.Config, "file containing domain list sources")
	fs.StringP("whitelist", "w", d.Whitelist, "file containing a set of names to exclude from the blacklist")
	fs.StringP("time-restricted", "r", d.TimeRestricted, "file containing a set of names to be time restricted")
	fs.BoolP("ignore-retrieval-failure", "i", d.IgnoreRetrievalFailure, "generate list even if some urls couldn't be retrieved")
	fs.IntP("timeout", "t", d.Timeout, "URL open timeout in seconds")
	fs.StringP("output", "o", d.Output, "output file")
	fs.String("whitelist-output", d.WhitelistOutput, "file receiving the filtered whitelist")
	fs.String("user-agent", d.UserAgent, "User-Agent header sent to remote sources")
	fs.Int("concurrency", d.Concurrency, "number of sources fetched in parallel")
	fs.Int("cache-size", d.CacheSize, "number of fetched documents kept during a run")
	fs.String("metrics-file", d.MetricsFile, "write run metrics in Prometheus text format to this file")
	fs.String("env", d.Env, "runtime environment (dev or prod)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	return fs
}

// Load parses args (without the program name) on top of the environment
// and the defaults, and returns a validated AppConfig. A --help request
// yields pflag.ErrHelp.
func Load(args []string) (*AppConfig, error) {
	fs := NewFlagSet("rr-blocklist")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	err = flagLoader(k, fs)
	if err != nil {
		return nil, fmt.Errorf("error loading flags: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
