package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"

	"github.com/globeviz/texstore/internal/dds"
	"github.com/globeviz/texstore/internal/dxt"
)

type compressCmd struct {
	preset    string
	format    string
	selector  string
	mipmaps   bool
	dxt1Alpha bool
	threshold int
	workers   int
}

func (c *compressCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "compress",
		Usage: "[flags] <image>...",
		Desc:  "Compress png/jpeg/bmp/tga images into .dds textures.",
	}
}

func (c *compressCmd) RegisterFlags(fl *pflag.FlagSet) {
	fl.StringVar(&c.preset, "preset", "", "YAML compression preset file")
	fl.StringVar(&c.format, "format", "auto", "block format: auto, dxt1 or dxt3")
	fl.StringVar(&c.selector, "selector", "euclidean", "reference color heuristic: euclidean, box or luminance")
	fl.BoolVar(&c.mipmaps, "mipmaps", true, "store a mipmap chain")
	fl.BoolVar(&c.dxt1Alpha, "dxt1-alpha", false, "use 3-color transparent DXT1 blocks where pixels are translucent")
	fl.IntVar(&c.threshold, "alpha-threshold", dxt.DefaultAlphaThreshold, "alpha below this encodes as transparent in DXT1 3-color blocks")
	fl.IntVar(&c.workers, "workers", 4, "images compressed in parallel")
}

func (c *compressCmd) Run(fl *pflag.FlagSet) {
	if fl.NArg() == 0 {
		fl.Usage()
		os.Exit(2)
	}
	attrs, err := c.attributes(fl)
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}

	g := new(errgroup.Group)
	g.SetLimit(max(c.workers, 1))
	for _, path := range fl.Args() {
		g.Go(func() error {
			out := replaceExt(path, ".dds")
			if err := compressFile(path, out, attrs); err != nil {
				return err
			}
			fmt.Printf("Wrote %q\n", out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
}

// attributes builds compression attributes from the preset file, with
// explicitly set flags taking priority.
func (c *compressCmd) attributes(fl *pflag.FlagSet) (*dds.CompressionAttributes, error) {
	attrs := dds.DefaultCompressionAttributes()
	if c.preset != "" {
		loaded, err := dds.LoadAttributes(c.preset)
		if err != nil {
			return nil, err
		}
		attrs = loaded
	}

	if fl.Changed("format") || c.preset == "" {
		switch c.format {
		case "auto":
			attrs.Format = dds.FormatAuto
		case "dxt1":
			attrs.Format = dds.FormatDXT1
		case "dxt3":
			attrs.Format = dds.FormatDXT3
		default:
			return nil, fmt.Errorf("unknown format %q", c.format)
		}
	}
	if fl.Changed("selector") || c.preset == "" {
		switch c.selector {
		case "euclidean":
			attrs.ColorSelection = dxt.SelectEuclidean
		case "box":
			attrs.ColorSelection = dxt.SelectBoundingBox
		case "luminance":
			attrs.ColorSelection = dxt.SelectLuminance
		default:
			return nil, fmt.Errorf("unknown selector %q", c.selector)
		}
	}
	if fl.Changed("mipmaps") {
		attrs.BuildMipMaps = c.mipmaps
	}
	if fl.Changed("dxt1-alpha") {
		attrs.EnableDXT1Alpha = c.dxt1Alpha
	}
	if fl.Changed("alpha-threshold") {
		if c.threshold < 0 || c.threshold > 255 {
			return nil, fmt.Errorf("alpha-threshold %d out of range", c.threshold)
		}
		attrs.AlphaThreshold = uint8(c.threshold)
	}
	return attrs, nil
}

func compressFile(path, out string, attrs *dds.CompressionAttributes) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %q: %w", path, err)
	}

	data, err := dds.Compress(img, attrs)
	if err != nil {
		return fmt.Errorf("compress %q: %w", path, err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", out, err)
	}
	return nil
}

func replaceExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i] + ext
	}
	return path + ext
}
