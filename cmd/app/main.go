package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/folio/internal"
	pkgconfig "github.com/starford/folio/pkg/config"
	"github.com/urfave/cli/v3"
)

// loadConfig reads the config file named by --config. A missing file is
// allowed when optional is set and leaves the defaults in place.
func loadConfig(cmd *cli.Command, optional bool) (*internal.Config, error) {
	if err := pkgconfig.LoadEnvFiles(".env", ".env.development.local", ".env.local"); err != nil {
		return nil, err
	}

	configPath := cmd.String("config")
	cfg := internal.NewDefaultConfig()

	load := pkgconfig.Load[internal.Config]
	if optional {
		load = pkgconfig.LoadOptional[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Notion.ApplyEnv()
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func refresh(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	if _, err := internal.RunRefresh(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr)); err != nil {
		return fmt.Errorf("Failed to refresh resources cache: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "folio",
		Usage:  "Notion resources cache and searchable resources and TIL listings",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the listing pages, JSON search API and SSE reload events",
				Action: serve,
			},
			{
				Name:   "refresh",
				Usage:  "Rebuild the resources cache file from Notion",
				Action: refresh,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the listing search tools over MCP stdio",
				Action: mcp,
			},
		},
	}
}

// run executes the CLI and returns the process exit code. Joined errors are
// reported to stderr one per line.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	err := newCommand().Run(ctx, args)
	if err == nil {
		return 0
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			logger.Error(e.Error())
		}
	} else {
		logger.Error("application error", slog.String("error", err.Error()))
	}
	return 1
}

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stderr))
}
