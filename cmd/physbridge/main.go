package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"physbridge/internal/bridge"
	"physbridge/internal/config"
	"physbridge/internal/scene"
	"physbridge/internal/tui"
)

var (
	dt       float64
	duration float64
	noPlot   bool
	watch    bool
	rayFrom  string
	rayTo    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "physbridge",
		Short: "rigid-body bridge playground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run("", false)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [scene.yaml]",
		Short: "run a scene headless and summarize it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0, "tick length (overrides the scene)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "simulated seconds (overrides the scene)")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the height plot")

	liveCmd := &cobra.Command{
		Use:   "live [scene.yaml]",
		Short: "run a scene with the terminal live view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return tui.Run(path, watch)
		},
	}
	liveCmd.Flags().BoolVar(&watch, "watch", true, "reload when the scene file changes")

	raycastCmd := &cobra.Command{
		Use:   "raycast [scene.yaml]",
		Short: "cast a ray through a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  raycastScene,
	}
	raycastCmd.Flags().StringVar(&rayFrom, "from", "0,10,0", "segment start x,y,z")
	raycastCmd.Flags().StringVar(&rayTo, "to", "0,-10,0", "segment end x,y,z")

	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "list dispatchable object operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range bridge.OperationNames() {
				fmt.Println(name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [scene.yaml]",
		Short: "write a starter scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], config.DefaultScene()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, raycastCmd, opsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadScene(args []string) (*config.Scene, error) {
	if len(args) == 0 {
		return config.DefaultScene(), nil
	}
	return config.Load(args[0])
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	w, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	contacts := 0
	w.Bridge.OnContact(func(a, b bridge.Handle, distance float64) { contacts++ })

	var heights []float64
	ticks := int(cfg.Duration / cfg.Dt)
	for i := 0; i < ticks; i++ {
		w.Tick()
		if len(w.Handles) > 0 {
			if p, err := w.Position(w.Handles[cfg.Track]); err == nil {
				heights = append(heights, p[1])
			}
		}
	}

	fmt.Printf("simulated %.2fs in %d ticks, %d contact reports\n\n", cfg.Duration, ticks, contacts)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "object\tposition\tvelocity\tstate")
	for i, h := range w.Handles {
		p, err := w.Position(h)
		if err != nil {
			continue
		}
		resp, err := w.Bridge.Invoke(h, bridge.GetLinearVelocity)
		if err != nil {
			continue
		}
		v := resp.(bridge.Vector).Value
		fmt.Fprintf(tw, "%s\t%.2f %.2f %.2f\t%.2f %.2f %.2f\t%s\n",
			w.Names[i], p[0], p[1], p[2], v[0], v[1], v[2], stateOf(w.Bridge, h))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !noPlot && len(heights) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(downsample(heights, 72),
			asciigraph.Height(10),
			asciigraph.Caption(fmt.Sprintf("%s height over %.1fs", w.Names[cfg.Track], cfg.Duration))))
	}
	return nil
}

func stateOf(b *bridge.Bridge, h bridge.Handle) string {
	if resp, err := b.Invoke(h, bridge.IsStatic); err == nil && resp.(bridge.Boolean).Value {
		return "static"
	}
	if resp, err := b.Invoke(h, bridge.IsKinematic); err == nil && resp.(bridge.Boolean).Value {
		return "kinematic"
	}
	if resp, err := b.Invoke(h, bridge.IsActive); err == nil && !resp.(bridge.Boolean).Value {
		return "sleeping"
	}
	return "active"
}

// downsample thins a series to at most n points so the plot stays narrow.
func downsample(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = series[i*len(series)/n]
	}
	return out
}

func raycastScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	from, err := parseVec(rayFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseVec(rayTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	w, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	h, point, normal, ok := w.Bridge.Raycast(from, to)
	if !ok {
		fmt.Println("no hit")
		return nil
	}
	name := fmt.Sprintf("object %d", h)
	for i, wh := range w.Handles {
		if wh == h {
			name = w.Names[i]
		}
	}
	fmt.Printf("hit %s\n  point  %.3f %.3f %.3f\n  normal %.3f %.3f %.3f\n",
		name, point[0], point[1], point[2], normal[0], normal[1], normal[2])
	return nil
}

func parseVec(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("bad component %q", p)
		}
		v[i] = f
	}
	return v, nil
}
