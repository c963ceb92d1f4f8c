// Package config contains all knobs and defaults used to configure features of
// Canopy.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	DefaultRequestTimeout = 10 * time.Second

	DefaultMaxOpenConns        = 30
	DefaultMaxIdleConns        = 10
	DefaultMaxConcurrentReads  = 0
	DefaultMaxConcurrentWrites = 0

	DefaultTokenTTL         = 8 * time.Hour
	DefaultClaimsCacheSize  = 10000
	DefaultBcryptCost       = 10
	DefaultLocalIssuer      = "canopy"
	DefaultLocalAudience    = "canopy-api"
	DefaultOIDCRoleClaim    = "role"
	MinLocalSigningKeyBytes = 32
)

var (
	authnMethods     = []string{"none", "local", "oidc", "preshared"}
	datastoreEngines = []string{"memory", "sqlite", "postgres", "mysql"}
	logFormats       = []string{"text", "json"}
	logLevels        = []string{"none", "debug", "info", "warn", "error", "panic", "fatal"}
	timestampFormats = []string{"Unix", "ISO8601"}
)

type DatastoreMetricsConfig struct {
	// Enabled enables export of the Datastore metrics.
	Enabled bool
}

// DatastoreConfig defines Canopy server configurations for datastore specific settings.
type DatastoreConfig struct {
	// Engine is the datastore engine to use (e.g. 'memory', 'sqlite', 'postgres', 'mysql')
	Engine   string
	URI      string
	Username string
	Password string

	// MaxOpenConns is the maximum number of open connections to the database.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of connections to the datastore in the idle connection
	// pool.
	MaxIdleConns int

	// ConnMaxIdleTime is the maximum amount of time a connection to the datastore may be idle.
	ConnMaxIdleTime time.Duration

	// ConnMaxLifetime is the maximum amount of time a connection to the datastore may be reused.
	ConnMaxLifetime time.Duration

	// MaxConcurrentReads and MaxConcurrentWrites bound the number of transactions in flight.
	// Zero means unbounded.
	MaxConcurrentReads  uint32
	MaxConcurrentWrites uint32

	// MaxTxRetries is the number of times a conflicting write transaction is re-run.
	MaxTxRetries int

	// Metrics is configuration for the Datastore metrics.
	Metrics DatastoreMetricsConfig
}

// HTTPConfig defines the configuration of the HTTP server.
type HTTPConfig struct {
	Addr string
	TLS  *TLSConfig

	CORSAllowedOrigins []string
	CORSAllowedHeaders []string
}

// TLSConfig defines configuration specific to Transport Layer Security (TLS) settings.
type TLSConfig struct {
	Enabled  bool
	CertPath string `mapstructure:"cert"`
	KeyPath  string `mapstructure:"key"`
}

// AuthnConfig defines Canopy server configurations for authentication specific settings.
type AuthnConfig struct {
	// Method is the authentication method that should be enforced (e.g. 'none', 'local',
	// 'oidc', 'preshared')
	Method    string
	Local     AuthnLocalConfig        `mapstructure:"local"`
	OIDC      AuthnOIDCConfig         `mapstructure:"oidc"`
	Preshared AuthnPresharedKeyConfig `mapstructure:"preshared"`

	// ClaimsCacheSize is the number of validated tokens kept in memory.
	ClaimsCacheSize int64
}

// AuthnLocalConfig configures the tokens issued by the login and register endpoints. They are
// issued whatever the configured method is.
type AuthnLocalConfig struct {
	// SigningKey is the HS256 key. When empty an ephemeral key is generated at start-up and
	// tokens do not survive a restart.
	SigningKey string
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthnOIDCConfig defines configurations for the 'oidc' method of authentication.
type AuthnOIDCConfig struct {
	Issuer        string
	IssuerAliases []string
	Audience      string
	RoleClaim     string
}

// AuthnPresharedKeyConfig defines configurations for the 'preshared' method of authentication.
type AuthnPresharedKeyConfig struct {
	// Keys define the preshared keys to verify authn tokens against.
	Keys []string

	// Role is granted to every caller presenting a valid key.
	Role string
}

// LogConfig defines Canopy server configurations for log specific settings. For production we
// recommend using the 'json' log format.
type LogConfig struct {
	// Format is the log format to use in the log output (e.g. 'text' or 'json')
	Format string

	// Level is the log level to use in the log output (e.g. 'none', 'debug', or 'info')
	Level string

	// Format of the timestamp in the log output (e.g. 'Unix'(default) or 'ISO8601')
	TimestampFormat string
}

type TraceConfig struct {
	Enabled     bool
	OTLP        OTLPTraceConfig `mapstructure:"otlp"`
	SampleRatio float64
	ServiceName string
}

type OTLPTraceConfig struct {
	Endpoint string
	TLS      OTLPTraceTLSConfig
}

type OTLPTraceTLSConfig struct {
	Enabled bool
}

// MetricConfig defines configurations for serving custom metrics from Canopy.
type MetricConfig struct {
	Enabled bool
	Addr    string
}

// SeedConfig defines the accounts registered on start-up when the user table is empty.
type SeedConfig struct {
	Enabled       bool
	AdminUsername string
	AdminPassword string
	UserUsername  string
	UserPassword  string
}

type Config struct {
	// RequestTimeout bounds the time spent serving a single request. Zero disables it.
	RequestTimeout time.Duration

	Datastore DatastoreConfig
	HTTP      HTTPConfig
	Authn     AuthnConfig
	Log       LogConfig
	Trace     TraceConfig
	Metrics   MetricConfig
	Seed      SeedConfig
}

func (cfg *Config) Verify() error {
	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("config 'log.format' must be one of ['text', 'json']")
	}

	if !slices.Contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf(
			"config 'log.level' must be one of ['none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal']",
		)
	}

	if !slices.Contains(timestampFormats, cfg.Log.TimestampFormat) {
		return fmt.Errorf("config 'log.TimestampFormat' must be one of ['Unix', 'ISO8601']")
	}

	if cfg.RequestTimeout < 0 {
		return errors.New("config 'requestTimeout' cannot be negative")
	}

	if cfg.HTTP.TLS != nil && cfg.HTTP.TLS.Enabled {
		if cfg.HTTP.TLS.CertPath == "" || cfg.HTTP.TLS.KeyPath == "" {
			return errors.New("'http.tls.cert' and 'http.tls.key' configs must be set")
		}
	}

	if err := cfg.verifyDatastore(); err != nil {
		return err
	}

	if err := cfg.verifyAuthn(); err != nil {
		return err
	}

	if cfg.Seed.Enabled {
		if cfg.Seed.AdminUsername == "" || cfg.Seed.AdminPassword == "" ||
			cfg.Seed.UserUsername == "" || cfg.Seed.UserPassword == "" {
			return errors.New("'seed' requires the admin and user usernames and passwords to be set")
		}
	}

	if cfg.Trace.SampleRatio < 0 || cfg.Trace.SampleRatio > 1 {
		return errors.New("config 'trace.sampleRatio' must be between 0 and 1")
	}

	return nil
}

func (cfg *Config) verifyDatastore() error {
	if !slices.Contains(datastoreEngines, cfg.Datastore.Engine) {
		return fmt.Errorf("storage engine '%s' is unsupported", cfg.Datastore.Engine)
	}

	if cfg.Datastore.Engine != "memory" && cfg.Datastore.URI == "" {
		return fmt.Errorf("config 'datastore.uri' is required for the '%s' engine", cfg.Datastore.Engine)
	}

	if cfg.Datastore.MaxTxRetries < 0 {
		return errors.New("config 'datastore.maxTxRetries' cannot be negative")
	}

	return nil
}

func (cfg *Config) verifyAuthn() error {
	if !slices.Contains(authnMethods, cfg.Authn.Method) {
		return fmt.Errorf("unsupported authentication method '%s'", cfg.Authn.Method)
	}

	local := cfg.Authn.Local
	if local.SigningKey != "" && len(local.SigningKey) < MinLocalSigningKeyBytes {
		return fmt.Errorf("config 'authn.local.signingKey' must be at least %d bytes", MinLocalSigningKeyBytes)
	}
	if local.Issuer == "" || local.Audience == "" {
		return errors.New("'authn.local.issuer' and 'authn.local.audience' configs must be set")
	}
	if local.TokenTTL <= 0 {
		return errors.New("config 'authn.local.tokenTTL' must be positive")
	}

	switch cfg.Authn.Method {
	case "oidc":
		if cfg.Authn.OIDC.Issuer == "" || cfg.Authn.OIDC.Audience == "" {
			return errors.New("'authn.oidc.issuer' and 'authn.oidc.audience' configs must be set")
		}
	case "preshared":
		if len(cfg.Authn.Preshared.Keys) == 0 {
			return errors.New("config 'authn.preshared.keys' must contain at least one key")
		}
	}

	return nil
}

// DefaultConfig is the Canopy server default configurations.
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout: DefaultRequestTimeout,
		Datastore: DatastoreConfig{
			Engine:              "memory",
			MaxIdleConns:        DefaultMaxIdleConns,
			MaxOpenConns:        DefaultMaxOpenConns,
			MaxConcurrentReads:  DefaultMaxConcurrentReads,
			MaxConcurrentWrites: DefaultMaxConcurrentWrites,
		},
		HTTP: HTTPConfig{
			Addr:               "0.0.0.0:8080",
			TLS:                &TLSConfig{Enabled: false},
			CORSAllowedOrigins: []string{"*"},
			CORSAllowedHeaders: []string{"*"},
		},
		Authn: AuthnConfig{
			Method: "local",
			Local: AuthnLocalConfig{
				Issuer:     DefaultLocalIssuer,
				Audience:   DefaultLocalAudience,
				TokenTTL:   DefaultTokenTTL,
				BcryptCost: DefaultBcryptCost,
			},
			OIDC: AuthnOIDCConfig{
				RoleClaim: DefaultOIDCRoleClaim,
			},
			Preshared: AuthnPresharedKeyConfig{
				Role: "User",
			},
			ClaimsCacheSize: DefaultClaimsCacheSize,
		},
		Log: LogConfig{
			Format:          "text",
			Level:           "info",
			TimestampFormat: "Unix",
		},
		Trace: TraceConfig{
			Enabled: false,
			OTLP: OTLPTraceConfig{
				Endpoint: "0.0.0.0:4317",
				TLS: OTLPTraceTLSConfig{
					Enabled: false,
				},
			},
			SampleRatio: 0.2,
			ServiceName: "canopy",
		},
		Metrics: MetricConfig{
			Enabled: true,
			Addr:    "0.0.0.0:2112",
		},
		Seed: SeedConfig{
			Enabled:       false,
			AdminUsername: "admin",
			AdminPassword: "admin123",
			UserUsername:  "user",
			UserPassword:  "user123",
		},
	}
}

// MustDefaultConfig returns a verified default configuration.
func MustDefaultConfig() *Config {
	config := DefaultConfig()

	if err := config.Verify(); err != nil {
		panic(err)
	}

	return config
}
