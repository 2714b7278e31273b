// Package main provides the biblyser CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging
var verbose bool

func main() {
	godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "biblyser",
	Short: "Bibliometric analysis for research organisations",
	Long: `biblyser gathers, reconciles and analyses the publication output of a
research organisation.

It fetches publication records from CrossRef and scholar profiles, removes
duplicates and noise, resolves author genders, and reports citation and
gender-diversity metrics. All commands output JSON by default for easy
integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// logger builds the CLI logger. Debug output goes to stderr so stdout stays
// machine-readable.
func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
