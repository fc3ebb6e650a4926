// Command ggscript runs a drawing script and saves the result as a PNG.
//
// Usage:
//
//	ggscript [flags] script.js
//
// Settings come from the optional -config TOML file; flags given on the
// command line override it. With -hit the script is hit-tested at a point
// instead and the result is printed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/ggscript"
	"github.com/gogpu/ggscript/internal/config"
	"github.com/gogpu/ggscript/script"
)

// errUsage reports a command line without exactly one script.
var errUsage = errors.New("usage: ggscript [flags] script.js")

// options is the parsed command line.
type options struct {
	conf        config.Config
	writeConfig string
	hit         string
	script      string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	switch {
	case errors.Is(err, flag.ErrHelp):
		return
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	case err != nil:
		log.Fatal(err)
	}

	if opts.writeConfig != "" {
		if err := config.Write(opts.writeConfig, opts.conf); err != nil {
			log.Fatal(err)
		}
		return
	}

	level, _ := opts.conf.Level()
	ggscript.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(os.Stdout, opts.script, opts.conf, opts.hit); err != nil {
		log.Fatal(err)
	}
}

// parseArgs reads the flags and the -config file. Flags given on the
// command line take precedence over the file.
func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("ggscript", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "TOML configuration file")
		writeConfig = fs.String("write-config", "", "write the effective configuration to this file and exit")
		output      = fs.String("output", "", "output PNG file")
		width       = fs.Float64("width", 0, "canvas width")
		height      = fs.Float64("height", 0, "canvas height")
		scale       = fs.Float64("scale", 0, "device pixels per canvas unit")
		flipY       = fs.Bool("flip-y", false, "use a Y-up coordinate system")
		background  = fs.String("background", "", "background color as hex, e.g. #ffffff")
		iconDir     = fs.String("icons", "", "directory of icons for Icon.named")
		fontDir     = fs.String("fonts", "", "directory of fonts for Font.named")
		timeout     = fs.Duration("timeout", 0, "script time limit")
		hit         = fs.String("hit", "", "hit-test at x,y instead of rendering")
		verbose     = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	conf := config.Default()
	if *configPath != "" {
		var err error
		if conf, err = config.Load(*configPath); err != nil {
			return options{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			conf.Output = *output
		case "width":
			conf.Width = *width
		case "height":
			conf.Height = *height
		case "scale":
			conf.Scale = *scale
		case "flip-y":
			conf.FlipY = *flipY
		case "background":
			conf.Background = *background
		case "icons":
			conf.IconDir = *iconDir
		case "fonts":
			conf.FontDir = *fontDir
		case "timeout":
			conf.Timeout = config.Duration(*timeout)
		case "v":
			if *verbose {
				conf.LogLevel = "debug"
			}
		}
	})
	if err := conf.Validate(); err != nil {
		return options{}, err
	}

	opts := options{conf: conf, writeConfig: *writeConfig, hit: *hit}
	if *writeConfig != "" {
		return opts, nil
	}
	if fs.NArg() != 1 {
		return options{}, errUsage
	}
	opts.script = fs.Arg(0)
	return opts, nil
}

// run executes the script and saves a PNG, or prints the hit-test result
// to w when hit is set.
func run(w io.Writer, scriptPath string, conf config.Config, hit string) error {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}

	var opts []script.EngineOption
	if conf.IconDir != "" {
		opts = append(opts, script.WithIconDir(conf.IconDir))
	}
	if conf.FontDir != "" {
		opts = append(opts, script.WithFontDir(conf.FontDir))
	}
	eng, err := script.NewEngine(opts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := context.Background()
	if conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(conf.Timeout))
		defer cancel()
	}
	if err := eng.Run(ctx, scriptPath, string(src)); err != nil {
		return err
	}

	metrics := ggscript.Metrics{
		Width:  conf.Width,
		Height: conf.Height,
		Scale:  conf.Scale,
		FlipY:  conf.FlipY,
	}

	if hit != "" {
		pt, err := parsePoint(hit)
		if err != nil {
			return err
		}
		ok, err := eng.HitTest(ctx, metrics, pt)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ok)
		return nil
	}

	cv := ggscript.NewDisplayCanvas(metrics)
	defer cv.Release()
	if conf.Background != "" {
		bg, err := ggscript.NewColorPaintHex(conf.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		cv.Context().ClearWithColor(bg.PlatformColor())
		bg.Release()
	}
	if err := eng.Draw(ctx, cv); err != nil {
		return err
	}
	if err := cv.Context().SavePNG(conf.Output); err != nil {
		return fmt.Errorf("save %s: %w", conf.Output, err)
	}

	dw, dh := metrics.DeviceSize()
	log.Printf("Saved %s (%dx%d)\n", conf.Output, dw, dh)
	return nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (ggscript.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return ggscript.Point{}, fmt.Errorf("hit point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return ggscript.Point{}, fmt.Errorf("hit point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return ggscript.Point{}, fmt.Errorf("hit point %q: %w", s, err)
	}
	return ggscript.Pt(x, y), nil
}
