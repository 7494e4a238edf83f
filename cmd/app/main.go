// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/eventdesk/accessd/cmd/app/commands"
	"github.com/eventdesk/accessd/internal/app"
	"github.com/eventdesk/accessd/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "accessd",
		Usage:   "Access-control coordinator for event portals",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-auth-record",
				Usage: "Create or replace the auth record for a subject id",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subject-id",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Subject id ('default' writes the shared fallback record)",
					},
					&cli.StringFlag{
						Name:     "permitted-hosts",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "JSON array of {host, actionsProfile} entries",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer func() { _ = container.Shutdown(ctx) }()

					txManager, err := container.TxManager()
					if err != nil {
						return err
					}

					recordRepo, err := container.AuthRecordRepository()
					if err != nil {
						return err
					}

					profileRepo, err := container.ActionsProfileRepository()
					if err != nil {
						return err
					}

					return commands.RunCreateAuthRecord(
						ctx,
						txManager,
						recordRepo,
						profileRepo,
						logger,
						cmd.String("subject-id"),
						cmd.String("permitted-hosts"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "create-profile",
				Usage: "Create or replace a named actions profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Profile name (e.g., attendee, organizer)",
					},
					&cli.StringFlag{
						Name:     "actions",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "JSON array of operation strings (e.g., '[\"GET/events\"]')",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer func() { _ = container.Shutdown(ctx) }()

					profileRepo, err := container.ActionsProfileRepository()
					if err != nil {
						return err
					}

					return commands.RunCreateProfile(
						ctx,
						profileRepo,
						logger,
						cmd.String("name"),
						cmd.String("actions"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "create-participant",
				Usage: "Register a participant's contact email for a subject id",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subject-id",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Subject id",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Contact email for verification messages",
					},
					&cli.StringFlag{
						Name:    "display-name",
						Aliases: []string{"d"},
						Usage:   "Human-readable participant name",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer func() { _ = container.Shutdown(ctx) }()

					participantRepo, err := container.ParticipantRepository()
					if err != nil {
						return err
					}

					return commands.RunCreateParticipant(
						ctx,
						participantRepo,
						logger,
						cmd.String("subject-id"),
						cmd.String("email"),
						cmd.String("display-name"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
