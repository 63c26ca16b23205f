// Command ise runs iterative set expansion: it grows a set of relation tuples
// from a seed query by searching, extracting and re-querying.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ise",
	Short: "Discover relation tuples from the web by iterative set expansion",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()

		level := slog.LevelWarn
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "config/config.toml", "Path to the TOML configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log extraction details to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
