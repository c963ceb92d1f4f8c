package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestMustBindPFlag(t *testing.T) {
	t.Cleanup(viper.Reset)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("http-addr", "0.0.0.0:8080", "")
	MustBindPFlag("http.addr", flags.Lookup("http-addr"))

	require.NoError(t, flags.Parse([]string{"--http-addr", "127.0.0.1:9090"}))
	require.Equal(t, "127.0.0.1:9090", viper.GetString("http.addr"))

	require.Panics(t, func() {
		MustBindPFlag("http.addr", nil)
	})
}

func TestMustBindEnv(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("CANOPY_LOG_LEVEL", "debug")

	MustBindEnv("log.level", "CANOPY_LOG_LEVEL")
	require.Equal(t, "debug", viper.GetString("log.level"))

	require.Panics(t, func() {
		MustBindEnv()
	})
}

func TestPrepareTempConfigFile(t *testing.T) {
	PrepareTempConfigFile(t, "log:\n  level: warn\n")

	data, err := os.ReadFile(filepath.Join(os.Getenv("HOME"), ".canopy", "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, "log:\n  level: warn\n", string(data))
}
