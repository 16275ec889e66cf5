package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/adapters/csvfile"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/adapters/excel"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/app"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/analysis"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/config"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/logging"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/profile"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/structure"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/ports"
)

var configPath string

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "csvagent",
		Short: "Schema-free tabular ingestion and analysis core",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file overlaying the defaults")

	rootCmd.AddCommand(
		newProfileCmd(),
		newCleanCmd(),
		newAggregateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readerFor picks the adapter by file extension.
func readerFor(path string, logger *logging.Logger) ports.TableReader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return excel.NewReader(logger)
	default:
		return csvfile.NewReader(logger)
	}
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [files...]",
		Short: "Detect structure and profile every column of each file",
		Long: `Recover the header, drop summary rows and derive per-column
semantic profiles for one or more delimited or xlsx files.

Example: csvagent profile export.csv report.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.NewDefaultLogger()

			type fileResult struct {
				File     string                `json:"file"`
				Snapshot *table.Snapshot       `json:"snapshot"`
				Profiles []table.ColumnProfile `json:"profiles"`
			}
			results := make([]fileResult, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					snap, err := profileFile(ctx, path, cfg, logger)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = fileResult{File: path, Snapshot: snap, Profiles: snap.Profiles}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return printJSON(results)
		},
	}
	return cmd
}

// profileFile runs the ingestion path for one file: read, recover
// structure, profile, snapshot.
func profileFile(ctx context.Context, path string, cfg config.Config, logger *logging.Logger) (*table.Snapshot, error) {
	raw, err := readerFor(path, logger).Read(ctx, path)
	if err != nil {
		return nil, err
	}
	ct, meta := structure.BuildCanonicalTable(raw, cfg.Detector)
	profiles := profile.ProfileTable(ct, cfg.Profiler)
	return table.NewSnapshot(raw.Hash(), ct, meta).WithProfiles(profiles), nil
}

func newCleanCmd() *cobra.Command {
	var planFile string

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Run the three-stage cleaning pipeline against a stage plan",
		Long: `Execute titleExtraction, headerResolution and dataNormalization
driven by a free-text stage plan. Without --plan the pipeline runs on
detector fallbacks alone.

Example: csvagent clean export.csv --plan stageplan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.NewDefaultLogger()

			var sp plan.StagePlan
			if planFile != "" {
				data, err := os.ReadFile(planFile)
				if err != nil {
					return fmt.Errorf("read stage plan: %w", err)
				}
				if err := json.Unmarshal(data, &sp); err != nil {
					return fmt.Errorf("decode stage plan: %w", err)
				}
			}

			raw, err := readerFor(args[0], logger).Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			pipeline := app.NewPipeline(cfg.Pipeline, cfg.Detector, cfg.Classifier, logger)
			result := pipeline.Run(raw, sp)
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "", "Path to a stage plan JSON file")
	return cmd
}

func newAggregateCmd() *cobra.Command {
	var (
		planFile  string
		chartType string
		agg       string
		groupBy   string
		valueCol  string
	)

	cmd := &cobra.Command{
		Use:   "aggregate [file]",
		Short: "Clean a file and run a chart/analysis plan",
		Long: `Recover structure, then execute a chart plan over the cleaned
table and print the chart-ready rows. The plan comes from --plan JSON
or from the individual flags.

Examples:
  csvagent aggregate sales.csv --group-by Region --value Revenue --agg sum
  csvagent aggregate sales.csv --plan plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.NewDefaultLogger()

			raw, err := readerFor(args[0], logger).Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ct, _ := structure.BuildCanonicalTable(raw, cfg.Detector)

			p := plan.AnalysisPlan{
				ChartType:     plan.ChartType(chartType),
				Aggregation:   plan.Aggregation(agg),
				GroupByColumn: groupBy,
				ValueColumn:   valueCol,
			}
			if planFile != "" {
				data, err := os.ReadFile(planFile)
				if err != nil {
					return fmt.Errorf("read plan: %w", err)
				}
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode plan: %w", err)
				}
			}
			rows, resolved, err := analysis.NewExecutor(cfg.Analysis, logger).Execute(ct, p)
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"plan": resolved,
				"rows": rows,
			})
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "", "Path to an analysis plan JSON file")
	cmd.Flags().StringVar(&chartType, "chart", "bar", "Chart type: bar|line|pie|doughnut|scatter")
	cmd.Flags().StringVar(&agg, "agg", "sum", "Aggregation: sum|count|avg")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "Column to group by")
	cmd.Flags().StringVar(&valueCol, "value", "", "Column to aggregate")
	return cmd
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
