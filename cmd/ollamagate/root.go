package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ollamagate",
	Short: "Credential-gated HTTP gateway for Ollama backends",
	Long: `Ollamagate sits in front of one or more Ollama instances, each
identified by a base url and an optional bearer credential. It exposes a
small management API for selecting the active backend, listing and
deleting models, and streaming model downloads to the caller as
newline-delimited JSON progress records.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}
