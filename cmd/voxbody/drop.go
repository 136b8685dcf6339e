package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"

	"github.com/gekko3d/voxbody"
	"github.com/gekko3d/voxbody/trace"
)

var (
	flagPreset    string
	flagSteps     int
	flagDt        float32
	flagHeight    float32
	flagDrift     float32
	flagPool      bool
	flagTracePath string
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop one body onto a flat voxel floor and report how it settles",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().StringVar(&flagPreset, "preset", "crate", "Body preset from the config")
	dropCmd.Flags().IntVar(&flagSteps, "steps", 300, "Number of ticks to run")
	dropCmd.Flags().Float32Var(&flagDt, "dt", 0, "Step length in seconds (default 1/tick_rate)")
	dropCmd.Flags().Float32Var(&flagHeight, "height", 6, "Spawn height above the floor")
	dropCmd.Flags().Float32Var(&flagDrift, "drift", 0, "Initial horizontal speed along +X")
	dropCmd.Flags().BoolVar(&flagPool, "pool", false, "Flood the area under the spawn point with water")
	dropCmd.Flags().StringVar(&flagTracePath, "trace", "", "Record every tick into this SQLite file")
}

// dropReport collects what happened to the dropped body.
type dropReport struct {
	preset     string
	ticks      int
	landedAt   int
	submerged  int
	diedAt     int
	final      voxbody.BodySnapshot
	hasFinal   bool
	contacts   int
	sleepTicks int
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	preset, ok := cfg.Presets[flagPreset]
	if !ok {
		return fmt.Errorf("unknown preset %q (have %v)", flagPreset, cfg.PresetNames())
	}
	bodyCfg, err := preset.BodyConfig()
	if err != nil {
		return fmt.Errorf("preset %q: %w", flagPreset, err)
	}

	dt := flagDt
	if dt <= 0 {
		dt = cfg.Dt()
	}

	world := cfg.NewWorld()
	buildArena(world, flagPool)
	// The arena is static from here on.
	world.FlushModified()

	sim := voxbody.NewSimulationFromConfig(cfg, world, logger)

	bodyCfg.Position = mgl32.Vec3{0.5, flagHeight, 0.5}
	body, err := sim.Spawn(bodyCfg)
	if err != nil {
		return err
	}
	// A body released at rest falls asleep after its first step.
	body.SetVelocity(mgl32.Vec3{flagDrift, -1, 0})
	logger.Infof("spawned %s (%s) at %v", flagPreset, body.ID(), body.Position())

	var rec *trace.Recorder
	if flagTracePath != "" {
		rec, err = trace.Open(flagTracePath)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	report := dropReport{preset: flagPreset, landedAt: -1, submerged: -1, diedAt: -1}
	sim.OnRemove(func(b *voxbody.RigidBody) {
		if b.ID() == body.ID() {
			report.diedAt = int(sim.CurrentTick())
			logger.Warnf("%s left the world at %v", b.ID(), b.Position())
		}
	})

	for i := 0; i < flagSteps && sim.Len() > 0; i++ {
		stats := sim.Tick(dt)
		report.ticks = int(stats.Tick)
		report.contacts += stats.Contacts
		if stats.Sleeping > 0 {
			report.sleepTicks++
		}

		if rec != nil {
			if err := rec.Record(stats.Tick, sim.Snapshots()); err != nil {
				return err
			}
		}

		if body.IsDead() {
			continue
		}
		if report.landedAt < 0 && body.GravitySuppressed() {
			report.landedAt = report.ticks
			logger.Infof("landed at tick %d, y=%.3f", report.ticks, body.BoundingBox().Min.Y())
		}
		if report.submerged < 0 && body.IsInLiquid() {
			report.submerged = report.ticks
			logger.Infof("submerged in %s at tick %d", body.LiquidKind(), report.ticks)
		}
	}

	if snaps := sim.Snapshots(); len(snaps) > 0 {
		report.final = snaps[0]
		report.hasFinal = true
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
	return nil
}

// buildArena lays a one voxel thick floor under y=0 across the whole world and
// optionally floods a shallow pool around the spawn column.
func buildArena(world *voxbody.VoxelWorld, pool bool) {
	b := world.Bounds()
	lo := world.VoxelCoords(b.Min)
	hi := world.VoxelCoords(b.Max.Sub(mgl32.Vec3{0.001, 0.001, 0.001}))
	floor := world.VoxelCoords(mgl32.Vec3{0, -world.VoxelSize() / 2, 0})[1]

	world.Fill([3]int{lo[0], floor, lo[2]}, [3]int{hi[0], floor, hi[2]}, 1)
	if pool {
		world.FillLiquid([3]int{-3, floor + 1, -3}, [3]int{3, floor + 3, 3}, voxbody.MaxLiquidLevel, voxbody.LiquidWater)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderReport(r dropReport) string {
	tickOr := func(t int) string {
		if t < 0 {
			return "-"
		}
		return fmt.Sprintf("tick %d", t)
	}
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
	}

	rows := []string{
		titleStyle.Render("drop: " + r.preset),
		row("ticks", fmt.Sprintf("%d", r.ticks)),
		row("landed", tickOr(r.landedAt)),
		row("submerged", tickOr(r.submerged)),
		row("died", tickOr(r.diedAt)),
		row("contacts", fmt.Sprintf("%d", r.contacts)),
		row("asleep", fmt.Sprintf("%d ticks", r.sleepTicks)),
	}
	if r.hasFinal {
		p, v := r.final.Position, r.final.Velocity
		rows = append(rows,
			row("position", fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X(), p.Y(), p.Z())),
			row("velocity", fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())),
		)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
