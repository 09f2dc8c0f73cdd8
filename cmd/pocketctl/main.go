package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"pocket/internal/cli"
	"pocket/internal/config"
	"pocket/internal/log"
)

func main() {
	name := path.Base(os.Args[0])
	// Answers the shell and exits when invoked for completion.
	cli.Completion().Complete(name)

	cli.LoadEnvFile()
	cfg := config.Load()
	// Logs go to stderr, warn and above, so they never mix with command output.
	logger := log.New(log.Config{
		Level:     max(cfg.Level(), slog.LevelWarn),
		Component: log.ComponentCLI,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)

	env := &cli.Env{
		Out:           os.Stdout,
		Err:           os.Stderr,
		MarkdownStyle: getEnv("POCKET_MARKDOWN_STYLE", "auto"),
		Open: func(ctx context.Context) (*cli.Session, error) {
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			res, err := cli.OpenStore(ctx, logger, cfg)
			if err != nil {
				return nil, err
			}
			return cli.NewSession(ctx, res.Store, res.Cleanup, logger), nil
		},
	}

	commander := subcommands.NewCommander(flag.CommandLine, name)
	cli.Register(commander, env)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
