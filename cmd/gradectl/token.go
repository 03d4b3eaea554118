package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for the grading API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "gradectl", Usage: "token subject"},
			&cli.StringSliceFlag{Name: "role", Usage: "role claim, repeatable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.NewJwtConfig()
			if cfg.Secret == "" {
				return cli.Exit("JWT_SECRET is not set", 2)
			}
			token, err := crypto.NewJWTService(cfg).GenerateTokenHMAC(ctx, domain.AuthPayload{
				Subject: cmd.String("subject"),
				Roles:   cmd.StringSlice("role"),
			})
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}
