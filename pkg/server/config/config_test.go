package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestVerifyConfig(t *testing.T) {
	t.Run("defaults_are_valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Verify())
		require.NotPanics(t, func() { MustDefaultConfig() })
	})

	t.Run("non_log_format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Format = "notaformat"

		err := cfg.Verify()
		require.Error(t, err)
	})

	t.Run("non_log_level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Level = "notalevel"

		err := cfg.Verify()
		require.Error(t, err)
	})

	t.Run("invalid_log_timestamp_format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.TimestampFormat = "notatimestampformat"

		err := cfg.Verify()
		require.Error(t, err)
	})

	t.Run("negative_request_timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RequestTimeout = -time.Second

		err := cfg.Verify()
		require.EqualError(t, err, "config 'requestTimeout' cannot be negative")
	})

	t.Run("failing_to_set_http_cert_path_will_not_allow_server_to_start", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.HTTP.TLS = &TLSConfig{
			Enabled: true,
			KeyPath: "some/path",
		}

		err := cfg.Verify()
		require.EqualError(t, err, "'http.tls.cert' and 'http.tls.key' configs must be set")
	})

	t.Run("failing_to_set_http_key_path_will_not_allow_server_to_start", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.HTTP.TLS = &TLSConfig{
			Enabled:  true,
			CertPath: "some/path",
		}

		err := cfg.Verify()
		require.EqualError(t, err, "'http.tls.cert' and 'http.tls.key' configs must be set")
	})

	t.Run("unknown_engine", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Datastore.Engine = "cassandra"

		err := cfg.Verify()
		require.EqualError(t, err, "storage engine 'cassandra' is unsupported")
	})

	t.Run("sql_engine_requires_uri", func(t *testing.T) {
		for _, engine := range []string{"sqlite", "postgres", "mysql"} {
			cfg := DefaultConfig()
			cfg.Datastore.Engine = engine

			err := cfg.Verify()
			require.ErrorContains(t, err, "config 'datastore.uri' is required")
		}
	})

	t.Run("unknown_authn_method", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Authn.Method = "kerberos"

		err := cfg.Verify()
		require.EqualError(t, err, "unsupported authentication method 'kerberos'")
	})

	t.Run("short_signing_key", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Authn.Local.SigningKey = "too-short"

		err := cfg.Verify()
		require.ErrorContains(t, err, "must be at least 32 bytes")

		cfg.Authn.Local.SigningKey = strings.Repeat("k", MinLocalSigningKeyBytes)
		require.NoError(t, cfg.Verify())
	})

	t.Run("oidc_requires_issuer_and_audience", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Authn.Method = "oidc"
		cfg.Authn.OIDC.Issuer = "https://issuer.example.com"

		err := cfg.Verify()
		require.EqualError(t, err, "'authn.oidc.issuer' and 'authn.oidc.audience' configs must be set")
	})

	t.Run("preshared_requires_keys", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Authn.Method = "preshared"

		err := cfg.Verify()
		require.EqualError(t, err, "config 'authn.preshared.keys' must contain at least one key")
	})

	t.Run("seed_requires_credentials", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Seed.Enabled = true
		require.NoError(t, cfg.Verify())

		cfg.Seed.UserPassword = ""
		err := cfg.Verify()
		require.ErrorContains(t, err, "'seed' requires")
	})

	t.Run("sample_ratio_out_of_range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Trace.SampleRatio = 1.5

		err := cfg.Verify()
		require.EqualError(t, err, "config 'trace.sampleRatio' must be between 0 and 1")
	})
}

func TestConfigFromYAML(t *testing.T) {
	config := []byte(`
datastore:
  engine: sqlite
  uri: file:canopy.db
  maxConcurrentWrites: 1
authn:
  method: preshared
  preshared:
    keys: ["KEYONE"]
    role: Admin
http:
  tls:
    enabled: true
    cert: /etc/canopy/tls.crt
    key: /etc/canopy/tls.key
seed:
  enabled: true
`)

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(config)))

	cfg := DefaultConfig()
	require.NoError(t, v.Unmarshal(cfg))
	require.NoError(t, cfg.Verify())

	require.Equal(t, "sqlite", cfg.Datastore.Engine)
	require.Equal(t, "file:canopy.db", cfg.Datastore.URI)
	require.Equal(t, uint32(1), cfg.Datastore.MaxConcurrentWrites)
	require.Equal(t, []string{"KEYONE"}, cfg.Authn.Preshared.Keys)
	require.Equal(t, "Admin", cfg.Authn.Preshared.Role)
	require.Equal(t, "/etc/canopy/tls.crt", cfg.HTTP.TLS.CertPath)
	require.True(t, cfg.Seed.Enabled)
	require.Equal(t, "admin", cfg.Seed.AdminUsername, "defaults survive a partial file")
	require.Equal(t, DefaultTokenTTL, cfg.Authn.Local.TokenTTL)
}
