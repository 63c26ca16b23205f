package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/agenthands/ise/internal/bootstrap"
	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core"
	"github.com/agenthands/ise/internal/driver"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a discovery from a seed query",
	Long: `Run a discovery from a seed query.

Every halt (target reached, no unseen URLs, no unused tuple to query with)
exits with status 0 and prints the tuples gathered so far.`,
	Example: `  ise run --method classifier --relation 2 --threshold 0.7 --query "bill gates microsoft" --k 10
  ise run --method generative --relation 4 --query "google sundar pichai" --k 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := runFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := run.Validate(); err != nil {
			return err
		}
		cmd.SilenceUsage = true

		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return err
		}
		cfg.ApplyEnv()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger := slog.Default()
		components, err := bootstrap.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer components.Close()

		frontier, err := components.Frontier(ctx, run, core.TextReporter{W: cmd.OutOrStdout()})
		if err != nil {
			return err
		}
		result, err := frontier.Run(ctx, run)
		if err != nil {
			return err
		}

		if export, _ := cmd.Flags().GetBool("export"); export {
			return exportResult(ctx, cfg, logger, result)
		}
		return nil
	},
}

func runFromFlags(cmd *cobra.Command) (config.Run, error) {
	methodFlag, _ := cmd.Flags().GetString("method")
	method, err := config.ParseMethod(methodFlag)
	if err != nil {
		return config.Run{}, err
	}
	relationID, _ := cmd.Flags().GetInt("relation")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	query, _ := cmd.Flags().GetString("query")
	k, _ := cmd.Flags().GetInt("k")

	return config.Run{
		Method:    method,
		Relation:  relationID,
		Threshold: threshold,
		Query:     query,
		Target:    k,
	}, nil
}

func exportResult(ctx context.Context, cfg *config.Config, logger *slog.Logger, result *core.Result) error {
	if cfg.Memgraph.URI == "" {
		return fmt.Errorf("%w: --export needs memgraph.uri or MEMGRAPH_URI", config.ErrInvalidConfig)
	}
	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph, logger)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	if err := d.BuildIndices(ctx); err != nil {
		return err
	}
	if err := core.NewExporter(d).Export(ctx, result); err != nil {
		return err
	}
	logger.Info("Exported relations", "run_id", result.RunID, "tuples", len(result.Tuples))
	return nil
}

func init() {
	runCmd.Flags().StringP("method", "m", "classifier", "Extraction method: classifier (spanbert) or generative (gemini)")
	runCmd.Flags().IntP("relation", "r", 0, "Relation type: 1 Schools_Attended, 2 Work_For, 3 Live_In, 4 Top_Member_Employees")
	runCmd.Flags().Float64P("threshold", "t", 0, "Minimum classifier confidence in (0, 1]; ignored by the generative method")
	runCmd.Flags().StringP("query", "q", "", "Seed query, e.g. \"bill gates microsoft\"")
	runCmd.Flags().IntP("k", "k", 10, "Number of tuples to collect")
	runCmd.Flags().Bool("export", false, "Write the final tuples to Memgraph")

	rootCmd.AddCommand(runCmd)
}
