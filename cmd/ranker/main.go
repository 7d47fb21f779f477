// Package main provides the ranker CLI: batch ranking, head-to-head comparison,
// dictionary normalization and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "ranker"

var (
	// Used for flags.
	cfgFile string

	// v holds flag bindings and is handed to config.Load.
	v = viper.New()

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "Rank applicants against job requirements",
		Long: "ranker scores applicants against a job with an ensemble of three algorithms, " +
			"canonicalizes degree and eligibility text through dictionaries with AI fallback, " +
			"and breaks close ties with bounded AI adjustments.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := v.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		panic(fmt.Sprintf("failed to bind debug flag: %v", err))
	}
	if err := v.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		panic(fmt.Sprintf("failed to bind json flag: %v", err))
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
