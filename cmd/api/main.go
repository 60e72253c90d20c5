package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "ecoshop",
		Usage: "e-commerce backend API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "dotenv file to load before reading the environment (ignored if missing)",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			return loadEnvFile(c.String("env-file"))
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (and the outbox relay when AMQP_URL is set)",
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "create or update tables",
				Action: migrateAction,
			},
			{
				Name:  "seed",
				Usage: "insert a random demo catalog",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Usage: "number of products (default SEED_COUNT)"},
					&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 for a random catalog"},
					&cli.BoolFlag{Name: "if-empty", Usage: "only seed when the products table is empty"},
				},
				Action: seedAction,
			},
			{
				Name:      "import",
				Usage:     "bulk import products from a JSON array file",
				ArgsUsage: "<file.json>",
				Action:    importAction,
			},
			{
				Name:  "reset",
				Usage: "drop and recreate all tables, then seed",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "allow reset when GO_ENV=production"},
				},
				Action: resetAction,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// .envは任意（無ければ環境変数だけで動く）
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
