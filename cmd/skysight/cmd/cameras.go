package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skysight/internal/footprint"
)

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List built-in camera footprints",
	RunE:  runCameras,
}

func init() {
	rootCmd.AddCommand(camerasCmd)
}

func runCameras(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCCDS\tAREA\tRADIUS")
	fmt.Fprintln(w, "----\t----\t----\t------")

	for _, name := range footprint.Names() {
		cam, err := footprint.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\n",
			cam.Name(), len(cam.Footprint()), cam.Area(), cam.Radius())
	}

	return w.Flush()
}
