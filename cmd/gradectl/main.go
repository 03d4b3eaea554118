package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
)

func main() {
	cmd := &cli.Command{
		Name:  "gradectl",
		Usage: "grade source files against the judge from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "load `NAME`.env before reading configuration",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log pipeline activity to stderr",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if env := cmd.String("env"); env != "" {
				if err := godotenv.Load(env + ".env"); err != nil {
					return ctx, fmt.Errorf("error loading %s.env: %w", env, err)
				}
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			gradeCommand(),
			languagesCommand(),
			tokenCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func newLogger(cmd *cli.Command) primary.Logger {
	if cmd.Bool("verbose") {
		return logging.NewDebugZapLogger()
	}
	return logging.NewNopLogger()
}
