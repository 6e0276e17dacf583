package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"skysight/internal/codec"
	"skysight/internal/domain"
	"skysight/internal/footprint"
)

var rootCmd = &cobra.Command{
	Use:   "skysight",
	Short: "Dither strategy evaluation for survey cameras",
	Long: `skysight evaluates and optimizes dither strategies for mosaic
survey cameras. A camera is a set of CCD outlines on the sky; a dither
strategy is a sequence of slews (rotation plus RA/Dec offset) applied
between exposures. For each strategy skysight reports how much sky area
is covered by exactly k exposures.

Cameras come from the built-in footprint library or from a bundle file
(YAML or JSON) produced by "skysight export" or the server API.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadBundle parses a bundle file, inferring the codec from the
// extension.
func loadBundle(path string) (*codec.Bundle, error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = "yaml"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	return c.Parse(f)
}

// resolveCamera finds a camera by name, checking the bundle first and
// falling back to the built-in footprint library.
func resolveCamera(name string, bundle *codec.Bundle) (*domain.Camera, error) {
	if bundle != nil {
		for _, def := range bundle.Cameras {
			if def.Name == name {
				return domain.NewCamera(def.Name, def.Footprint)
			}
		}
	}
	return footprint.Lookup(name)
}
