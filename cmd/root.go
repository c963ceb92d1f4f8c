// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	datastoreEngineFlag = "datastore-engine"
	datastoreEngineConf = "datastore.engine"
	datastoreURIFlag    = "datastore-uri"
	datastoreURIConf    = "datastore.uri"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment
// variables prefixed with CANOPY, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CANOPY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/canopy", "$HOME/.canopy", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// the migrate command reads the datastore from the same config file as the server
	viper.SetDefault(datastoreEngineFlag, "")
	viper.SetDefault(datastoreURIFlag, "")
	if err := viper.ReadInConfig(); err == nil {
		viper.SetDefault(datastoreEngineFlag, viper.Get(datastoreEngineConf))
		viper.SetDefault(datastoreURIFlag, viper.Get(datastoreURIConf))
	}

	return &cobra.Command{
		Use:   "canopy",
		Short: "A service that keeps named nodes arranged as a forest",
		Long: `Canopy stores named nodes arranged in a forest and serves them over an HTTP JSON API.

Every mutation keeps the parent relation a forest: nodes cannot become their own ancestors and
nodes with children cannot be deleted. Reads are open to any authenticated caller, mutations
require the Admin role.`,
		SilenceUsage: true,
	}
}
