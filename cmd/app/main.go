package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/rolodex/internal"
	pkgconfig "github.com/starford/rolodex/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	path := cmd.String("config")
	if _, err := os.Stat(path); os.IsNotExist(err) && !cmd.IsSet("config") {
		// No config file and none requested: defaults apply.
		return cfg, cfg.Validate()
	}
	if err := pkgconfig.Load(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func withConfig(action func(ctx context.Context, cmd *cli.Command, cfg *internal.Config) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return action(ctx, cmd, cfg)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "rolodex",
		Usage: "Plain-text record store for people, leads, projects, and outreach, with tag-based scheduling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "rolodex.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "Print the staleness report for all active leads and projects",
				Action: withConfig(func(ctx context.Context, _ *cli.Command, cfg *internal.Config) error {
					return internal.RunReport(ctx, internal.WithConfig(cfg))
				}),
			},
			{
				Name:      "dump",
				Usage:     "Dump the full text of every active record in a category",
				ArgsUsage: "<leads|projects|people|outreach>",
				Action: withConfig(func(ctx context.Context, cmd *cli.Command, cfg *internal.Config) error {
					return internal.RunDump(ctx, cmd.Args().First(), internal.WithConfig(cfg))
				}),
			},
			{
				Name:  "schedule",
				Usage: "Scan a document for @reminder/@calendar/@imessage tags and execute new ones",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document to scan (relative to the vault root)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Resolve and print actions without executing them",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Execute tags even when the ledger already has them",
					},
					&cli.BoolFlag{
						Name:  "reset-ledger",
						Usage: "Truncate the idempotency ledger before processing",
					},
				},
				Action: withConfig(func(ctx context.Context, cmd *cli.Command, cfg *internal.Config) error {
					return internal.RunSchedule(ctx, internal.ScheduleOptions{
						File:        cmd.String("file"),
						DryRun:      cmd.Bool("dry-run"),
						Force:       cmd.Bool("force"),
						ResetLedger: cmd.Bool("reset-ledger"),
					}, internal.WithConfig(cfg))
				}),
			},
			{
				Name:  "audit",
				Usage: "Audit weekly plan files for tasks carried between weeks",
				Action: withConfig(func(ctx context.Context, _ *cli.Command, cfg *internal.Config) error {
					return internal.RunAudit(ctx, internal.WithConfig(cfg))
				}),
			},
			{
				Name:  "mcp",
				Usage: "Serve the vault tools over MCP stdio for the conversational agent",
				Action: withConfig(func(ctx context.Context, _ *cli.Command, cfg *internal.Config) error {
					return internal.RunMCP(ctx, internal.WithConfig(cfg))
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
