// voxbody drops rigid bodies into a small voxel world and reports what happens.
//
// Usage:
//
//	voxbody drop [--preset crate] [--steps 300] [--height 6] [--pool] [--trace run.db]
//	voxbody presets
//
// Global flags:
//
//	--config <path>  - YAML file applied over the built-in defaults
//	--debug          - Enable debug logging
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gekko3d/voxbody"
)

var (
	flagConfig string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voxbody",
	Short: "Run voxel rigid-body scenarios from the command line",
	Long: `voxbody runs the rigid-body simulation against a generated voxel world.

Examples:
  voxbody presets
  voxbody drop --preset barrel --height 10
  voxbody drop --preset crate --pool --trace /tmp/crate.db`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config applied over the defaults")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(presetsCmd)
}

func loadConfig() (voxbody.Config, voxbody.Logger, error) {
	logger := voxbody.NewDefaultLogger("voxbody", flagDebug)
	cfg, err := voxbody.LoadConfig(flagConfig)
	return cfg, logger, err
}
