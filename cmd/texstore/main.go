// texstore compresses imagery into DDS textures and back.
package main

import (
	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type rootCmd struct{}

func (rootCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "texstore",
		Usage: "[subcommand] [flags]",
		Desc:  "Compress imagery into DDS (DXT1/DXT3) textures, decompress and inspect them.",
	}
}

func (rootCmd) Run(fl *pflag.FlagSet) {
	fl.Usage()
}

func (rootCmd) Subcommands() []cli.Command {
	return []cli.Command{
		&compressCmd{},
		&decompressCmd{},
		&infoCmd{},
	}
}

func main() {
	cli.RunRoot(rootCmd{})
}
