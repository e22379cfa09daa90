// Package config resolves runtime settings from defaults, an optional config
// file, the process environment and explicit overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "PROGNOCORE"

	defaultPort              = "8080"
	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultBackendTimeout    = 10 * time.Second
	defaultEnv               = "local"
	defaultSiteURL           = "https://prognocore.com"
	defaultTemplatesDir      = "templates"
	defaultPublicDir         = "public"
	defaultLogLevel          = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Site      SiteConfig
	Backend   BackendConfig
	Session   SessionConfig
	Log       LogConfig
	Analytics AnalyticsConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// SiteConfig controls rendering.
type SiteConfig struct {
	Env          string
	Dev          bool
	BaseURL      string
	TemplatesDir string
	PublicDir    string
}

// Prod reports whether the site runs in production.
func (s SiteConfig) Prod() bool { return s.Env == "prod" }

// BackendConfig locates the submissions API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds the cookie signing key.
type SessionConfig struct {
	SigningKey string
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string
}

// AnalyticsConfig enables the GA4 tag for visitors who accepted cookies.
type AnalyticsConfig struct {
	GA4MeasurementID string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile   string
	envMap       map[string]string
	useSystemEnv bool
	overrides    map[string]any
}

// WithConfigFile reads a YAML, JSON or TOML file before the environment.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = strings.TrimSpace(path)
	}
}

// WithEnvMap injects environment values that take precedence over the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv stops Load from reading the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithOverride sets a config key (e.g. "server.port") above every other source.
// Command-line flags use it.
func WithOverride(key string, value any) Option {
	return func(o *loaderOptions) {
		if o.overrides == nil {
			o.overrides = map[string]any{}
		}
		o.overrides[key] = value
	}
}

// bindings maps config keys to environment variables, first match wins.
var bindings = map[string][]string{
	"server.addr":                  {envPrefix + "_SERVER_ADDR"},
	"server.port":                  {envPrefix + "_WEB_PORT", "PORT"},
	"server.read_timeout":          {envPrefix + "_SERVER_READ_TIMEOUT"},
	"server.read_header_timeout":   {envPrefix + "_SERVER_READ_HEADER_TIMEOUT"},
	"server.write_timeout":         {envPrefix + "_SERVER_WRITE_TIMEOUT"},
	"server.idle_timeout":          {envPrefix + "_SERVER_IDLE_TIMEOUT"},
	"server.shutdown_timeout":      {envPrefix + "_SERVER_SHUTDOWN_TIMEOUT"},
	"site.env":                     {envPrefix + "_ENV"},
	"site.dev":                     {envPrefix + "_DEV", "DEV"},
	"site.base_url":                {envPrefix + "_SITE_URL"},
	"site.templates_dir":           {envPrefix + "_TEMPLATES_DIR"},
	"site.public_dir":              {envPrefix + "_PUBLIC_DIR"},
	"backend.base_url":             {envPrefix + "_BACKEND_URL"},
	"backend.timeout":              {envPrefix + "_BACKEND_TIMEOUT"},
	"session.signing_key":          {envPrefix + "_SESSION_SIGNING_KEY"},
	"log.level":                    {envPrefix + "_LOG_LEVEL", "LOG_LEVEL"},
	"analytics.ga4_measurement_id": {envPrefix + "_GA_MEASUREMENT_ID"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.read_header_timeout", defaultReadHeaderTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("site.env", defaultEnv)
	v.SetDefault("site.base_url", defaultSiteURL)
	v.SetDefault("site.templates_dir", defaultTemplatesDir)
	v.SetDefault("site.public_dir", defaultPublicDir)
	v.SetDefault("backend.timeout", defaultBackendTimeout)
	v.SetDefault("log.level", defaultLogLevel)
}

// Load assembles the configuration. Precedence, lowest first: defaults,
// config file, process environment, WithEnvMap values, WithOverride values.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	v := viper.New()
	setDefaults(v)

	if options.configFile != "" {
		v.SetConfigFile(options.configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", options.configFile, err)
		}
	}

	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if options.useSystemEnv {
			args := append([]string{key}, bindings[key]...)
			if err := v.BindEnv(args...); err != nil {
				return Config{}, fmt.Errorf("config: bind %s: %w", key, err)
			}
		}
		if options.envMap != nil {
			for _, name := range bindings[key] {
				if value, ok := options.envMap[name]; ok {
					v.Set(key, value)
					break
				}
			}
		}
	}
	for key, value := range options.overrides {
		v.Set(key, value)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	env := strings.ToLower(strings.TrimSpace(v.GetString("site.env")))
	dev := env == defaultEnv
	if v.IsSet("site.dev") {
		dev = v.GetBool("site.dev")
	}

	addr := strings.TrimSpace(v.GetString("server.addr"))
	if addr == "" {
		addr = ":" + strings.TrimSpace(v.GetString("server.port"))
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:              addr,
			ReadTimeout:       v.GetDuration("server.read_timeout"),
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
		Site: SiteConfig{
			Env:          env,
			Dev:          dev,
			BaseURL:      strings.TrimRight(strings.TrimSpace(v.GetString("site.base_url")), "/"),
			TemplatesDir: strings.TrimSpace(v.GetString("site.templates_dir")),
			PublicDir:    strings.TrimSpace(v.GetString("site.public_dir")),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("backend.base_url")), "/"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Session: SessionConfig{
			SigningKey: strings.TrimSpace(v.GetString("session.signing_key")),
		},
		Log: LogConfig{
			Level: strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: strings.TrimSpace(v.GetString("analytics.ga4_measurement_id")),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var invalid []string
	switch c.Site.Env {
	case "local", "dev", "staging", "prod":
	default:
		invalid = append(invalid, "Site.Env")
	}
	if c.Server.Addr == "" || strings.HasSuffix(c.Server.Addr, ":") {
		invalid = append(invalid, "Server.Addr")
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"Server.ReadTimeout", c.Server.ReadTimeout},
		{"Server.ReadHeaderTimeout", c.Server.ReadHeaderTimeout},
		{"Server.WriteTimeout", c.Server.WriteTimeout},
		{"Server.IdleTimeout", c.Server.IdleTimeout},
		{"Server.ShutdownTimeout", c.Server.ShutdownTimeout},
		{"Backend.Timeout", c.Backend.Timeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			invalid = append(invalid, d.name)
		}
	}
	if c.Backend.BaseURL != "" && !absoluteHTTP(c.Backend.BaseURL) {
		invalid = append(invalid, "Backend.BaseURL")
	}
	if !absoluteHTTP(c.Site.BaseURL) {
		invalid = append(invalid, "Site.BaseURL")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "Log.Level")
	}
	if id := c.Analytics.GA4MeasurementID; id != "" && !strings.HasPrefix(id, "G-") {
		invalid = append(invalid, "Analytics.GA4MeasurementID")
	}
	if c.Site.Prod() && c.Session.SigningKey == "" {
		invalid = append(invalid, "Session.SigningKey")
	}
	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func absoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Hostname returns the machine name for log fields, or "unknown".
func Hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}
