package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"skysight/internal/codec"
	"skysight/internal/domain"
	"skysight/internal/optimizer"
)

var (
	optimizeSearcher  string
	optimizeExposures int
	optimizeObjective string
	optimizeMaxOffset float64
	optimizeMaxRot    float64
	optimizeSamples   int
	optimizeWorkers   int
	optimizeSeed      int64
	optimizeOut       string
	optimizeName      string
	optimizeQuiet     bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <camera>",
	Short: "Search for a dither strategy that maximizes coverage",
	Long: `Optimize searches the slew space of a camera for the strategy that
scores highest under the chosen objective:

  footprint  total area covered at least once (default)
  overlap    area covered by two or more exposures
  depth      mean exposures over the covered area

With --out the winning strategy is written as a bundle file that
"skysight evaluate" and the server import endpoint accept.`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeSearcher, "searcher", "grid", "Search algorithm (grid, random, anneal)")
	optimizeCmd.Flags().IntVar(&optimizeExposures, "exposures", 4, "Exposures per strategy")
	optimizeCmd.Flags().StringVar(&optimizeObjective, "objective", "footprint", "Objective to maximize")
	optimizeCmd.Flags().Float64Var(&optimizeMaxOffset, "max-offset", 0, "Offset bound in degrees (0 = half the camera radius)")
	optimizeCmd.Flags().Float64Var(&optimizeMaxRot, "max-rotation", 90, "Rotation bound in degrees")
	optimizeCmd.Flags().IntVar(&optimizeSamples, "samples", 200, "Candidates to evaluate")
	optimizeCmd.Flags().IntVar(&optimizeWorkers, "workers", 4, "Parallel evaluation workers")
	optimizeCmd.Flags().Int64Var(&optimizeSeed, "seed", 0, "Random seed for random and anneal searchers")
	optimizeCmd.Flags().StringVar(&optimizeOut, "out", "", "Write the best strategy to a bundle file")
	optimizeCmd.Flags().StringVar(&optimizeName, "name", "optimized", "Name for the written strategy")
	optimizeCmd.Flags().BoolVarP(&optimizeQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cameraName := args[0]
	cam, err := resolveCamera(cameraName, nil)
	if err != nil {
		return err
	}

	objective, err := optimizer.ParseObjective(optimizeObjective)
	if err != nil {
		return err
	}

	searcher, err := optimizer.Default().Get(optimizeSearcher)
	if err != nil {
		return err
	}

	req := optimizer.Request{
		Camera:         cam,
		Exposures:      optimizeExposures,
		Objective:      objective,
		MaxOffsetDeg:   optimizeMaxOffset,
		MaxRotationDeg: optimizeMaxRot,
		Samples:        optimizeSamples,
		Workers:        optimizeWorkers,
		Seed:           optimizeSeed,
	}

	var progress optimizer.ProgressFunc
	if !optimizeQuiet {
		progress = func(p optimizer.Progress) {
			if p.Evaluated%25 == 0 || p.Evaluated == p.Total {
				fmt.Fprintf(os.Stderr, "evaluated %d/%d, best %.4f\n",
					p.Evaluated, p.Total, p.BestScore)
			}
		}
	}

	result, err := searcher.Search(cmd.Context(), req, progress)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Searcher:  %s (%d candidates in %s)\n",
		result.Searcher, result.Evaluated, result.Duration.Round(time.Millisecond))
	fmt.Printf("Objective: %s\n", objective)
	fmt.Printf("Score:     %.4f\n\n", result.Best.Score)
	for i, slew := range result.Best.Slews {
		fmt.Printf("  slew %d: rot %+.3f deg, ra %+.4f, dec %+.4f\n",
			i, slew.RotationDeg, slew.RAOffsetDeg, slew.DecOffsetDeg)
	}

	report := domain.NewReport("", cameraName, len(result.Best.Slews), result.Best.Coverage, result.Duration)
	fmt.Println()
	printCoverage(report)

	if optimizeOut == "" {
		return nil
	}

	strat := domain.NewStrategy(optimizeName, cameraName, result.Best.Slews)
	strat.Source = "optimizer"
	bundle := &codec.Bundle{Strategies: []domain.Strategy{*strat}}

	c, err := codec.ForFormat("yaml")
	if err != nil {
		return err
	}
	f, err := os.Create(optimizeOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", optimizeOut, err)
	}
	defer f.Close()
	if err := c.Export(bundle, f); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	fmt.Printf("\nStrategy written to %s\n", optimizeOut)
	return nil
}
