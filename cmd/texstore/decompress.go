package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/globeviz/texstore/internal/dds"
)

type decompressCmd struct {
	out   string
	level int
}

func (c *decompressCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "decompress",
		Usage: "[flags] <file.dds>",
		Desc:  "Decompress a .dds texture into a .png or .webp image.",
	}
}

func (c *decompressCmd) RegisterFlags(fl *pflag.FlagSet) {
	fl.StringVarP(&c.out, "out", "o", "", "output image path (.png or .webp); defaults to the input with .png")
	fl.IntVar(&c.level, "level", 0, "mip level to extract, 0 is full resolution")
}

func (c *decompressCmd) Run(fl *pflag.FlagSet) {
	if fl.NArg() != 1 {
		fl.Usage()
		os.Exit(2)
	}
	if err := c.run(fl.Arg(0)); err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
}

func (c *decompressCmd) run(path string) error {
	rasters, err := dds.DecompressFile(path, &dds.Extent{})
	if err != nil {
		return err
	}
	if c.level < 0 || c.level >= len(rasters) {
		return fmt.Errorf("mip level %d out of range, file has %d", c.level, len(rasters))
	}

	out := c.out
	if out == "" {
		out = replaceExt(path, ".png")
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %q: %w", out, err)
	}
	defer f.Close()

	img := rasters[c.level].Image
	if strings.HasSuffix(out, ".webp") {
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("encode %q: %w", out, err)
		}
	} else {
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode %q: %w", out, err)
		}
	}
	fmt.Printf("Wrote %q (%dx%d)\n", out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
