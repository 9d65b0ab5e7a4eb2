package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/todobuddy/internal"
	pkgconfig "github.com/starford/todobuddy/pkg/config"
)

var verbosity int

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	// The flag wins over the file.
	if vault := cmd.String("vault"); vault != "" {
		cfg.Vault.Path = vault
	}

	ctx, stop := internal.WithSignals(ctx)
	defer stop()

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithOptions(internal.Options{
			File:      cmd.String("file"),
			Tag:       cmd.String("tag"),
			TodayOnly: cmd.Bool("today"),
			Write:     cmd.Bool("write"),
			DryRun:    cmd.Bool("dry-run"),
			Force:     cmd.Bool("force"),
			Watch:     cmd.Bool("watch"),
			Verbosity: verbosity,
			Stats:     cmd.Bool("stats"),
		}),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:                   "todobuddy",
		Usage:                  "Aggregate tagged lines of a Markdown vault into per-tag companion notes and roll daily journals over",
		Action:                 run,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "todobuddy.yaml",
				Value:       "todobuddy.yaml",
				Sources:     cli.EnvVars("TODOBUDDY_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "vault",
				Usage: "Vault directory (overrides vault.path)",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Scan a single vault-relative note and print its tags",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "Only aggregate this tag",
			},
			&cli.BoolFlag{
				Name:  "today",
				Usage: "Only roll yesterday's open tasks over into today's journal",
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Write generated notes to disk instead of printing them",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Do not write anything; print today's journal",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Roll over even if today's journal was already generated",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep regenerating companion notes when notes change",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Increase verbosity (repeat up to three times)",
				Config:  cli.BoolConfig{Count: &verbosity},
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print counters and timings",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
