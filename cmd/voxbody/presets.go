package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the body presets of the loaded config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		name := lipgloss.NewStyle().Bold(true).Width(10)
		for _, n := range cfg.PresetNames() {
			bc, err := cfg.Presets[n].BodyConfig()
			if err != nil {
				return fmt.Errorf("preset %q: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s size=%v mass=%.2f restitution=%.2f friction=%.2f orient=%s\n",
				name.Render(n), bc.Size, bc.Mass, bc.Restitution, bc.Friction, bc.Orientation)
		}
		return nil
	},
}
