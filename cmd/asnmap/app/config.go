package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/internal/sources"
	"github.com/asnmap/asnmap/internal/transport"
	"github.com/asnmap/asnmap/pkg/constants"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

// envPrefix is prepended to every configuration key read from the environment.
const envPrefix = "ASNMAP"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Fetch configuration
	CacheDir string
	CacheTTL time.Duration
	Offline  bool

	// PeeringDBAPIKey authenticates directory downloads
	PeeringDBAPIKey string

	// Per-source overrides from the "sources" section
	Sources map[types.SourceID]sources.Override

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later with UpdateFromFlags)
//  2. Environment variables (ASNMAP_CACHE_DIR, ASNMAP_OFFLINE, ...)
//  3. .env and .env.local files
//  4. Config file (configFile, or .asnmap.yaml in $HOME or the working dir)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("cache_dir", fetch.DefaultCacheDir())
	v.SetDefault("cache_ttl", constants.CacheTTL)
	v.SetDefault("offline", false)
	v.SetDefault("format", "")
	_ = v.BindEnv("peeringdb_api_key", envPrefix+"_PEERINGDB_API_KEY", "PEERINGDB_API_KEY")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".asnmap")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("file", "read", err)
			}
		}
	}

	overrides, err := sourceOverrides(v)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		CacheDir: v.GetString("cache_dir"),
		CacheTTL: v.GetDuration("cache_ttl"),
		Offline:  v.GetBool("offline"),

		PeeringDBAPIKey: v.GetString("peeringdb_api_key"),

		Sources: overrides,

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// sourceOverrides reads the "sources" section:
//
//	sources:
//	  arin:
//	    urls: [/mirror/arin.db.gz]
//	  iptoasn:
//	    disabled: true
func sourceOverrides(v *viper.Viper) (map[types.SourceID]sources.Override, error) {
	var raw map[string]sources.Override
	if err := v.UnmarshalKey("sources", &raw); err != nil {
		return nil, errors.NewConfigError("sources", "decode", err)
	}

	out := make(map[types.SourceID]sources.Override, len(raw))
	for key, o := range raw {
		id, ok := types.ParseSourceID(key)
		if !ok {
			return nil, errors.NewConfigError("sources", "unknown source "+key, nil)
		}
		out[id] = o
	}

	// ASNMAP_SOURCES_<ID>_URLS and ASNMAP_SOURCES_<ID>_DISABLED
	for _, id := range types.SourceIDs() {
		prefix := envPrefix + "_SOURCES_" + strings.ToUpper(id.String())
		o := out[id]
		changed := false
		if urls := os.Getenv(prefix + "_URLS"); urls != "" {
			o.URLs = splitList(urls)
			changed = true
		}
		if disabled := os.Getenv(prefix + "_DISABLED"); disabled != "" {
			o.Disabled = disabled == "1" || strings.EqualFold(disabled, "true")
			changed = true
		}
		if changed {
			out[id] = o
		}
	}
	return out, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flags take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// FetchOptions converts the fetch settings into fetch client options.
func (c *Config) FetchOptions() []fetch.Option {
	opts := []fetch.Option{
		fetch.WithCacheDir(c.CacheDir),
		fetch.WithCacheTTL(c.CacheTTL),
		fetch.WithOffline(c.Offline),
	}
	if c.PeeringDBAPIKey != "" {
		opts = append(opts, fetch.WithHTTPClient(transport.New(transport.PeeringDB(c.PeeringDBAPIKey))))
	}
	return opts
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are not overwritten.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
