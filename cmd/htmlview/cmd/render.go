package cmd

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-drift/htmlview/cmd/htmlview/internal/config"
	"github.com/go-drift/htmlview/pkg/blockengine"
	"github.com/go-drift/htmlview/pkg/errors"
	"github.com/go-drift/htmlview/pkg/graphics"
	"github.com/go-drift/htmlview/pkg/input"
	"github.com/go-drift/htmlview/pkg/view"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render a markup document to PNG",
		Long: `Render a markup document to a PNG image.

The document is measured at the configured width, sized to its content
(or to the configured height), painted, and written out. Pointer input can
be replayed before the final frame to exercise hover and link handling;
followed links are printed.

Flags:
  --out FILE         Output path (default: input name with .png, or out.png for stdin)
  --width N          Viewport width in pixels (overrides htmlview.yaml)
  --height N         Fixed viewport height; 0 fits the content
  --min-height N     Minimum view height
  --hover X,Y        Move the pointer to X,Y before the final frame
  --tap X,Y          Tap at X,Y before the final frame (repeatable)`,
		Usage: "htmlview render <file|-> [--out FILE] [--width N] [--height N] [--min-height N] [--hover X,Y] [--tap X,Y]",
		Run:   runRender,
	})
}

type renderOptions struct {
	input     string
	out       string
	width     int
	height    int
	minHeight int
	hover     *graphics.Offset
	taps      []graphics.Offset
	sizeSet   struct{ width, height, minHeight bool }
}

func parseRenderArgs(args []string) (renderOptions, error) {
	var opts renderOptions
	next := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		flag, value, hasValue := strings.Cut(arg, "=")
		if !strings.HasPrefix(flag, "--") {
			if opts.input != "" {
				return opts, fmt.Errorf("unexpected argument %q", arg)
			}
			opts.input = arg
			continue
		}
		if !hasValue {
			v, err := next(i, flag)
			if err != nil {
				return opts, err
			}
			value = v
			i++
		}
		var err error
		switch flag {
		case "--out":
			opts.out = value
		case "--width":
			opts.width, err = parseSize(flag, value)
			opts.sizeSet.width = true
		case "--height":
			opts.height, err = parseSize(flag, value)
			opts.sizeSet.height = true
		case "--min-height":
			opts.minHeight, err = parseSize(flag, value)
			opts.sizeSet.minHeight = true
		case "--hover":
			var p graphics.Offset
			p, err = parsePoint(flag, value)
			opts.hover = &p
		case "--tap":
			var p graphics.Offset
			p, err = parsePoint(flag, value)
			opts.taps = append(opts.taps, p)
		default:
			return opts, fmt.Errorf("unknown flag %s", flag)
		}
		if err != nil {
			return opts, err
		}
	}
	if opts.input == "" {
		return opts, fmt.Errorf("input is required (a file path or - for stdin)\n\nUsage: htmlview render <file|-> [--out FILE]")
	}
	if opts.out == "" {
		opts.out = defaultOutput(opts.input)
	}
	return opts, nil
}

func parseSize(flag, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer (got %q)", flag, value)
	}
	return n, nil
}

func parsePoint(flag, value string) (graphics.Offset, error) {
	xs, ys, ok := strings.Cut(value, ",")
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if !ok || errX != nil || errY != nil {
		return graphics.Offset{}, fmt.Errorf("%s must be X,Y (got %q)", flag, value)
	}
	return graphics.Offset{X: x, Y: y}, nil
}

func defaultOutput(input string) string {
	if input == "-" {
		return "out.png"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
}

func runRender(args []string) error {
	opts, err := parseRenderArgs(args)
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(global.configDir, blockengine.Version)
	if err != nil {
		return err
	}
	if opts.sizeSet.width {
		cfg.Width = opts.width
	}
	if opts.sizeSet.height {
		cfg.Height = opts.height
	}
	if opts.sizeSet.minHeight {
		cfg.MinHeight = opts.minHeight
	}
	if cfg.Width <= 0 {
		return fmt.Errorf("width must be positive (got %d)", cfg.Width)
	}
	installLogHandler(cfg.Verbose)

	markup, err := readInput(opts.input)
	if err != nil {
		return err
	}

	engineOpts := cfg.Engine
	engineOpts.OnAnchorClick = func(href string) {
		fmt.Fprintf(stdout, "link: %s\n", href)
	}
	owner := &view.PipelineOwner{}
	v := view.New(blockengine.New(engineOpts),
		view.WithScheduler(owner),
		view.WithMinimumHeight(cfg.MinHeight),
	)
	defer v.Release()

	h := newHost(owner, cfg.Width, cfg.Height, cfg.MinHeight)
	v.LoadDocument(markup)
	h.settle()

	if opts.hover != nil {
		v.OnPointerEvent(input.PointerEvent{PointerID: 1, Phase: input.PointerPhaseMove, X: opts.hover.X, Y: opts.hover.Y})
	}
	for i, p := range opts.taps {
		id := int64(i + 2)
		v.OnPointerEvent(input.PointerEvent{PointerID: id, Phase: input.PointerPhaseDown, X: p.X, Y: p.Y})
		v.OnPointerEvent(input.PointerEvent{PointerID: id, Phase: input.PointerPhaseUp, X: p.X, Y: p.Y})
	}
	h.settle()

	img := h.frameImage()
	if img == nil {
		return &errors.ViewError{
			Op:    "render",
			Kind:  errors.KindDimensions,
			Err:   fmt.Errorf("document produced an empty frame"),
			Width: cfg.Width,
		}
	}
	if err := writePNG(opts.out, img); err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Fprintf(stdout, "wrote %s (%dx%d, %d frames)\n", opts.out, b.Dx(), b.Dy(), h.frames)
	return nil
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
