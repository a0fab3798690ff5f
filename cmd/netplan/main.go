package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/catalog"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/config"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/pipeline"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/plan"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/reconcile"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "netplan",
		Short: "Ward-level ITN allocation planner",
		Long:  `Reconciles a ward risk ranking against population data and plans net distribution greedily by risk rank`,
	}

	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createRegionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildCatalog assembles the population sources: the file layouts by
// default, postgres when requested.
func buildCatalog(cfg *config.Config, usePostgres bool, logger *zap.Logger) (*catalog.Catalog, func(), error) {
	cleanup := func() {}

	if usePostgres {
		src, err := store.Open()
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { src.Close() }
		return catalog.New([]catalog.Source{src}, logger), cleanup, nil
	}

	sources := []catalog.Source{
		&catalog.UnifiedSource{Dir: cfg.DataDir},
		&catalog.LegacySource{Dir: cfg.DataDir},
	}
	return catalog.New(sources, logger), cleanup, nil
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// createRunCmd creates the run subcommand: the full planning pipeline.
func createRunCmd() *cobra.Command {
	var (
		rankingPath      string
		regionName       string
		supply           int
		household        float64
		tokenThreshold   int
		partialThreshold int
		dataDir          string
		usePostgres      bool
		jsonPath         string
		verbose          bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Plan net allocation for a ranked ward list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if tokenThreshold > 0 {
				cfg.MatchThreshold = tokenThreshold
			}
			if partialThreshold > 0 {
				cfg.PartialThreshold = partialThreshold
			}
			if household > 0 {
				cfg.AvgHouseholdSize = household
			}

			logger := newLogger(verbose)
			defer logger.Sync()

			ranked, warnings, err := pipeline.LoadRankingCSV(rankingPath)
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
			}

			cat, cleanup, err := buildCatalog(cfg, usePostgres, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			p := pipeline.New(cat,
				pipeline.WithLogger(logger),
				pipeline.WithThresholds(reconcile.Thresholds{
					Token:   cfg.MatchThreshold,
					Partial: cfg.PartialThreshold,
				}))

			result, err := p.Run(pipeline.Input{
				Ranking:          ranked,
				RegionCandidates: []string{regionName},
				Params: plan.Parameters{
					TotalSupply:      supply,
					AvgHouseholdSize: cfg.AvgHouseholdSize,
				},
			})
			if err != nil {
				return err
			}

			printMatchReport(result.Report)
			printAllocation(result.Records)
			printStats(result.Stats, supply)

			if jsonPath != "" {
				if err := writeJSON(jsonPath, result); err != nil {
					return err
				}
				fmt.Printf("\nJSON written to %s\n", jsonPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rankingPath, "ranking", "", "Path to the risk-ranking CSV (required)")
	cmd.Flags().StringVar(&regionName, "region", "", "State name or code (required)")
	cmd.Flags().IntVar(&supply, "supply", 0, "Total number of nets available (required)")
	cmd.Flags().Float64Var(&household, "household", 0, "Average household size (default from env, 5.0)")
	cmd.Flags().IntVar(&tokenThreshold, "threshold", 0, "Fuzzy token-sort acceptance score (default 75)")
	cmd.Flags().IntVar(&partialThreshold, "partial-threshold", 0, "Fuzzy partial acceptance score (default 90)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding population CSV files")
	cmd.Flags().BoolVar(&usePostgres, "postgres", false, "Load population data from postgres instead of files")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Optional path to write the full result as JSON")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	if err := cmd.MarkFlagRequired("ranking"); err != nil {
		log.Fatal(err)
	}
	if err := cmd.MarkFlagRequired("region"); err != nil {
		log.Fatal(err)
	}
	if err := cmd.MarkFlagRequired("supply"); err != nil {
		log.Fatal(err)
	}

	return cmd
}

// createRegionsCmd creates the regions subcommand: data availability per
// state.
func createRegionsCmd() *cobra.Command {
	var (
		dataDir     string
		usePostgres bool
	)

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List states with population data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if dataDir != "" {
				cfg.DataDir = dataDir
			}

			cat, cleanup, err := buildCatalog(cfg, usePostgres, zap.NewNop())
			if err != nil {
				return err
			}
			defer cleanup()

			regions := cat.Regions()
			if len(regions) == 0 {
				fmt.Println("No population data found.")
				return nil
			}
			fmt.Println("States with population data")
			fmt.Println(strings.Repeat("-", 27))
			for _, r := range regions {
				fmt.Printf("%s  %s\n", r.Code, r.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding population CSV files")
	cmd.Flags().BoolVar(&usePostgres, "postgres", false, "Read availability from postgres instead of files")
	return cmd
}

func printMatchReport(report reconcile.Report) {
	fmt.Println("Ward Matching")
	fmt.Println(strings.Repeat("-", 13))
	fmt.Printf("Wards ranked:  %d\n", report.Total)
	fmt.Printf("Matched:       %d\n", report.Matched)
	fmt.Printf("Unmatched:     %d\n", report.Unmatched)
	fmt.Printf("Avg confidence %.1f\n", report.AvgConfidence)
	for method, count := range report.ByMethod {
		if count > 0 {
			fmt.Printf("  %-17s %d\n", method, count)
		}
	}
}

func printAllocation(records []plan.Record) {
	fmt.Println("\nAllocation Plan")
	fmt.Println(strings.Repeat("-", 15))
	for i, rec := range records {
		flag := ""
		if !rec.HasPopulationData {
			flag = " (est. population)"
		}
		fmt.Printf("%d. %s | Pop: %.0f | Needed: %d | Allocated: %d | Coverage: %.1f%% | %s%s\n",
			i+1, wardLabel(rec), rec.Population, rec.NetsNeeded, rec.NetsAllocated,
			rec.CoveragePct, rec.Phase, flag)
	}
}

func wardLabel(rec plan.Record) string {
	if rec.LGAName != "" {
		return fmt.Sprintf("%s (%s)", rec.WardName, rec.LGAName)
	}
	return rec.WardName
}

func printStats(stats plan.CoverageStats, supply int) {
	fmt.Println("\nCoverage Summary")
	fmt.Println(strings.Repeat("-", 16))
	fmt.Printf("Supply:          %d\n", supply)
	fmt.Printf("Needed:          %d\n", stats.TotalNetsNeeded)
	fmt.Printf("Allocated:       %d\n", stats.TotalAllocated)
	fmt.Printf("Remaining:       %d\n", stats.Remaining)
	fmt.Printf("Population:      %.0f\n", stats.TotalPopulation)
	fmt.Printf("Covered:         %.0f (%.1f%%)\n", stats.CoveredPopulation, stats.CoveragePct)
	fmt.Printf("Fully covered:   %d wards\n", stats.FullyCovered)
	fmt.Printf("Partial:         %d wards\n", stats.PartiallyCovered)
	if stats.AvgWardCoveragePct > 0 {
		fmt.Printf("Ward coverage:   %.1f%% - %.1f%% (avg %.1f%%)\n",
			stats.MinWardCoveragePct, stats.MaxWardCoveragePct, stats.AvgWardCoveragePct)
	}
}

func writeJSON(path string, result *pipeline.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create JSON output: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("unable to write JSON output: %w", err)
	}
	return nil
}
