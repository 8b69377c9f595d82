// rangeforge is a CLI for building and inspecting driving-range terrain.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/rangeforge/internal/config"
	"github.com/Faultbox/rangeforge/internal/editor"
	"github.com/Faultbox/rangeforge/internal/engine/terrain"
	"github.com/Faultbox/rangeforge/internal/logger"
)

func main() {
	// Parse global flags first; the command follows them
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "sculpt":
		err = cmdSculpt(cfg, args)
	case "probe":
		err = cmdProbe(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rangeforge - driving-range terrain builder

Usage:
  rangeforge [global options] <command> [options]

Global options:
  -config <file>     Config file (default ./config.yaml or user config dir)
  -debug             Enable debug logging
  -size <n>          Grid points per side
  -grid-res <units>  World units between grid points
  -seed <n>          Noise seed
  -log-file <file>   Write JSON logs to file

Commands:
  info [-noise] [-yaml]                 Show configuration and grid facts
  sculpt [-noise] [-relief] <script>    Run a sculpt script and report heights
  probe [-script s] [-eye h] x y [x2 y2]
                                        Sample the surface at world positions and
                                        test line of sight between two of them

Examples:
  rangeforge info -noise
  rangeforge -size 65 sculpt -relief ridge.yaml
  rangeforge probe -script ridge.yaml 10 10 50 50`)
}

// newEditor builds an engine and editor from the config.
func newEditor(cfg *config.Config, noise bool) *editor.Editor {
	eng := terrain.New(cfg.TerrainConfig())
	if noise {
		eng.SetNoise(cfg.Noise)
		eng.Update()
	}
	return editor.New(eng, editor.Brush{Spread: cfg.Brush.Spread, Falloff: cfg.Brush.Falloff})
}

func cmdInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	noise := fs.Bool("noise", false, "Apply configured noise")
	dump := fs.Bool("yaml", false, "Print the effective config as YAML")
	fs.Parse(args)

	if *dump {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		fmt.Println()
	}

	eng := newEditor(cfg, *noise).Engine()
	b := eng.Bounds()

	fmt.Printf("Grid:       %d x %d points\n", eng.Size(), eng.Size())
	fmt.Printf("Resolution: %g\n", eng.Resolution())
	fmt.Printf("Extent:     %g x %g\n", eng.Extent(), eng.Extent())
	fmt.Printf("Triangles:  %d\n", eng.TriangleCount())
	fmt.Printf("Vertices:   %d floats (%d per vertex)\n", len(eng.Vertices().Data()), terrain.FloatsPerVertex)
	fmt.Printf("Brush:      spread %g, %s\n", cfg.Brush.Spread, cfg.Brush.Falloff)
	if *noise {
		p := eng.NoiseParams()
		fmt.Printf("Noise:      %s, %d octaves, persistence %g, frequency %g, amplitude %g, seed %d\n",
			p.Kind, p.Octaves, p.Persistence, p.Frequency, p.Amplitude, p.Seed)
	}
	fmt.Printf("Bounds:     min %v max %v\n", b.Min, b.Max)
	return nil
}

func cmdSculpt(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sculpt", flag.ExitOnError)
	noise := fs.Bool("noise", false, "Apply configured noise before the script")
	relief := fs.Bool("relief", false, "Print an ASCII relief map")
	width := fs.Int("w", 64, "Relief width in characters")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rangeforge sculpt [-noise] [-relief] <script.yaml>")
		os.Exit(1)
	}

	ed, err := runScript(cfg, fs.Arg(0), *noise)
	if err != nil {
		return err
	}
	eng := ed.Engine()

	st := heightStats(eng.Heights())
	fmt.Printf("Script:         %s\n", fs.Arg(0))
	fmt.Printf("Control points: %d\n", eng.ControlPointCount())
	fmt.Printf("Heights:        min %.3f  max %.3f  mean %.3f\n", st.min, st.max, st.mean)
	fmt.Printf("Selection:      %d cells\n", ed.Len())
	if *relief {
		fmt.Println()
		fmt.Print(renderRelief(eng.Heights(), *width))
	}
	return nil
}

func cmdProbe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	script := fs.String("script", "", "Run this sculpt script first")
	noise := fs.Bool("noise", false, "Apply configured noise")
	eye := fs.Float64("eye", 1.5, "Eye height above the surface for line of sight")
	fs.Parse(args)

	if fs.NArg() != 2 && fs.NArg() != 4 {
		fmt.Fprintln(os.Stderr, "Usage: rangeforge probe [-script s] [-eye h] x y [x2 y2]")
		os.Exit(1)
	}

	coords := make([]float32, fs.NArg())
	for i := range coords {
		v, err := strconv.ParseFloat(fs.Arg(i), 32)
		if err != nil {
			return fmt.Errorf("parsing coordinate %q: %w", fs.Arg(i), err)
		}
		coords[i] = float32(v)
	}

	var ed *editor.Editor
	if *script != "" {
		var err error
		if ed, err = runScript(cfg, *script, *noise); err != nil {
			return err
		}
	} else {
		ed = newEditor(cfg, *noise)
	}

	eng := ed.Engine()
	ext := eng.Extent()
	for _, c := range coords {
		if c < 0 || c > ext {
			return fmt.Errorf("coordinate %g outside terrain [0, %g]", c, ext)
		}
	}

	ed.SetTee(coords[0], coords[1])
	tee, _ := ed.Tee()
	fmt.Printf("(%g, %g): height %.3f  normal %v\n",
		coords[0], coords[1], tee.Y(), eng.Normal(eng.WorldToGrid(coords[0]), eng.WorldToGrid(coords[1])))

	if len(coords) == 4 {
		ed.SetTarget(coords[2], coords[3])
		target, _ := ed.Target()
		fmt.Printf("(%g, %g): height %.3f\n", coords[2], coords[3], target.Y())
		fmt.Printf("Distance:      %.3f\n", target.Sub(tee).Len())
		fmt.Printf("Line of sight: %t (eye %.2f)\n", ed.LineOfSight(float32(*eye)), *eye)
	}
	return nil
}

func runScript(cfg *config.Config, path string, noise bool) (*editor.Editor, error) {
	s, err := editor.LoadScript(path)
	if err != nil {
		return nil, err
	}
	ed := newEditor(cfg, noise)
	if err := s.Run(ed, cfg.Noise); err != nil {
		return nil, fmt.Errorf("running %s: %w", path, err)
	}
	return ed, nil
}
