package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"skysight/internal/codec"
	"skysight/internal/footprint"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <camera>...",
	Short: "Export built-in camera footprints as a bundle",
	Long: `Export writes one or more built-in camera footprints as a bundle
file. The bundle can be edited, fed to "skysight evaluate", or posted
to a server's import endpoint.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Output format (yaml or json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	bundle := &codec.Bundle{}
	for _, name := range args {
		cam, err := footprint.Lookup(name)
		if err != nil {
			return err
		}
		bundle.Cameras = append(bundle.Cameras, codec.CameraDef{
			Name:      cam.Name(),
			Source:    "builtin",
			Footprint: cam.Footprint(),
		})
	}

	c, err := codec.ForFormat(exportFormat)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	return c.Export(bundle, w)
}
