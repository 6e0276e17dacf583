package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"skysight/internal/domain"
)

var (
	evaluateCamera   string
	evaluateStrategy string
	evaluateWorkers  int
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <bundle>",
	Short: "Evaluate a dither strategy from a bundle file",
	Long: `Evaluate computes the coverage map for a strategy stored in a
bundle file: for each depth k, the sky area covered by exactly k of the
strategy's exposures.

The bundle must contain at least one strategy. With more than one, pick
a strategy by name with --strategy. The camera is taken from the
strategy unless --camera overrides it; cameras resolve against the
bundle first, then the built-in footprint library.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateCamera, "camera", "", "Camera name override")
	evaluateCmd.Flags().StringVar(&evaluateStrategy, "strategy", "", "Strategy name to evaluate")
	evaluateCmd.Flags().IntVar(&evaluateWorkers, "workers", 4, "Parallel exposure-combination workers")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	bundle, err := loadBundle(args[0])
	if err != nil {
		return err
	}
	if len(bundle.Strategies) == 0 {
		return fmt.Errorf("bundle %s contains no strategies", args[0])
	}

	strat := &bundle.Strategies[0]
	if evaluateStrategy != "" {
		strat = nil
		for i := range bundle.Strategies {
			if bundle.Strategies[i].Name == evaluateStrategy {
				strat = &bundle.Strategies[i]
				break
			}
		}
		if strat == nil {
			return fmt.Errorf("strategy %q not found in bundle", evaluateStrategy)
		}
	}

	cameraName := strat.CameraName
	if evaluateCamera != "" {
		cameraName = evaluateCamera
	}
	cam, err := resolveCamera(cameraName, bundle)
	if err != nil {
		return err
	}

	start := time.Now()
	coverage, err := domain.Coverage(cmd.Context(), cam, strat.Slews, evaluateWorkers)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	report := domain.NewReport("", cameraName, len(strat.Slews), coverage, time.Since(start))

	fmt.Printf("Strategy: %s (%d exposures on %s)\n\n", strat.Name, report.Exposures, cameraName)
	printCoverage(report)
	return nil
}

// printCoverage writes a depth table followed by the report summary.
func printCoverage(report *domain.Report) {
	depths := make([]int, 0, len(report.Coverage))
	for k := range report.Coverage {
		depths = append(depths, k)
	}
	sort.Ints(depths)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEPTH\tAREA\tFRACTION")
	fmt.Fprintln(w, "-----\t----\t--------")
	for _, k := range depths {
		area := report.Coverage[k]
		frac := 0.0
		if report.TotalArea > 0 {
			frac = area / report.TotalArea
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.1f%%\n", k, area, frac*100)
	}
	w.Flush()

	fmt.Printf("\nTotal area: %.4f\n", report.TotalArea)
	fmt.Printf("Mean depth: %.4f\n", report.MeanDepth)
	fmt.Printf("Depth >= 2: %.1f%%\n", report.Coverage.DepthFraction(2)*100)
	fmt.Printf("Elapsed:    %s\n", report.Duration.Round(time.Millisecond))
}
