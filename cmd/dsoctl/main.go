package main

import (
	"github.com/alecthomas/kong"

	"dsoctl/internal/cli"
)

func main() {
	var root cli.CLI
	ctx := kong.Parse(&root,
		kong.Name("dsoctl"),
		kong.Description("Bench oscilloscope control tool (SCPI over TCP or serial)"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&root)
	ctx.FatalIfErrorf(err)
}
