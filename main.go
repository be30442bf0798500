package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tock"),
		kong.Description("A terminal countdown timer and stopwatch."),
		kong.UsageOnError(),
	)

	g, err := cli.setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ctx.FatalIfErrorf(execute(ctx, g, &cli))
}
