package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/globeviz/texstore/internal/dds"
)

type infoCmd struct{}

func (infoCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "info",
		Usage: "<file.dds>",
		Desc:  "Print the parsed DDS header.",
	}
}

func (c infoCmd) Run(fl *pflag.FlagSet) {
	if fl.NArg() != 1 {
		fl.Usage()
		os.Exit(2)
	}
	if err := c.run(fl.Arg(0)); err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
}

func (infoCmd) run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	header, err := dds.ParseHeader(data)
	if err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}

	fmt.Printf("width:        %d\n", header.Width)
	fmt.Printf("height:       %d\n", header.Height)
	fmt.Printf("linear size:  %d\n", header.LinearSize)
	fmt.Printf("mipmap count: %d\n", header.MipMapCount)
	fmt.Printf("format:       %s\n", dds.FourCCString(header.PixelFormat.FourCC))
	fmt.Printf("flags:        %#x\n", header.Flags)
	fmt.Printf("caps:         %#x\n", header.Caps)
	fmt.Printf("pixel data:   %d bytes\n", len(data)-dds.HeaderBytes)
	return nil
}
