// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholarly-search CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholarly-search/internal/secrets"
	"github.com/pdiddy/scholarly-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the scholarly-search CLI.
var rootCmd = &cobra.Command{
	Use:   "scholarly-search",
	Short: "Query scholarly metadata APIs and print records with links",
	Long: `scholarly-search sends a free-text query to public scholarly metadata
APIs (OpenAlex, arXiv, Crossref, and with a key, Semantic Scholar), routes
the query to the sources that fit its topic, and prints each record's title
and best available link.

API keys are read from files in the secrets directory (sskey.txt,
nasakey.txt), falling back to environment variables, which may also be
set in a .env file.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadDotenv(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(viper.GetString("secrets_dir"), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholarly-search.yaml or ~/.config/scholarly-search/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of API key files")
	rootCmd.PersistentFlags().Duration("timeout", types.DefaultTimeout, "per-request HTTP timeout")
	rootCmd.PersistentFlags().String("user-agent", types.DefaultUserAgent, "User-Agent header for API requests")
	rootCmd.PersistentFlags().String("mailto", types.DefaultMailto, "contact address sent to OpenAlex and Crossref")

	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	viper.BindPFlag("mailto", rootCmd.PersistentFlags().Lookup("mailto"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholarly-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholarly-search"))
		}
	}

	viper.SetEnvPrefix("SCHOLARLY_SEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpConfig resolves the shared HTTP settings from flags, config file,
// and environment.
func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	}
}

// newHTTPClient returns a client whose Timeout bounds every request.
func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
