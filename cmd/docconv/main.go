// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docconv CLI: it runs the PDF/DOCX
// conversion service and talks to a running one.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docconv CLI.
var rootCmd = &cobra.Command{
	Use:   "docconv",
	Short: "Convert documents between PDF and DOCX",
	Long: `docconv runs an HTTP service that converts uploaded documents between
PDF and DOCX. POST /convert takes a multipart form with a "file" part and a
"type" field (pdf-to-docx or docx-to-pdf) and answers with the converted file.

"docconv serve" starts the service; "docconv convert" uploads a local file to
a running service and saves the result.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docconv.yaml or ~/.config/docconv/docconv.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docconv"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("DOCCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Reading config file %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
