package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/modforge/espdec/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "espdec",
		Usage:   "Bethesda plugin (.esp/.esm/.esl) decoder and analyzer",
		Version: version.String(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			summaryCmd(),
			dumpCmd(),
			exportCmd(),
			batchCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
