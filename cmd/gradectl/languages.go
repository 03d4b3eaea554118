package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/judge0"
	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/language"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "list languages",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "remote", Usage: "ask the judge instead of printing the local table"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.NewJudgeConfig()

			var languages []domain.Language
			if cmd.Bool("remote") {
				var err error
				languages, err = judge0.NewClient(cfg, newLogger(cmd)).Languages(ctx)
				if err != nil {
					return err
				}
			} else {
				languages = language.NewRegistry(cfg.LanguageOverrides).Languages()
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, l := range languages {
				fmt.Fprintf(tw, "%d\t%s\n", l.ID, l.Name)
			}
			return tw.Flush()
		},
	}
}
