package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ecoshop/internal/catalog"
	"ecoshop/internal/config"
	"ecoshop/internal/infra/db"
	"ecoshop/internal/infra/logger"
	infraRepo "ecoshop/internal/infra/repository"

	"github.com/labstack/gommon/log"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

// コマンド共通の初期化（設定・ロガー・DB）
type env struct {
	cfg config.Config
	log *log.Logger
	db  *gorm.DB
}

func bootstrap() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lg := logger.New("ecoshop", cfg.LogLevel, os.Stdout)

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return &env{cfg: cfg, log: lg, db: gormDB}, nil
}

func (e *env) close() {
	if err := db.Close(e.db); err != nil {
		e.log.Warnj(log.JSON{"msg": "close db", "error": err.Error()})
	}
}

func migrateAction(c *cli.Context) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	if err := db.Migrate(e.db); err != nil {
		return err
	}
	e.log.Infoj(log.JSON{"msg": "migrated"})
	return nil
}

func seedAction(c *cli.Context) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	if err := db.Migrate(e.db); err != nil {
		return err
	}

	count := e.cfg.SeedCount
	if c.IsSet("count") {
		count = c.Int("count")
	}
	seeder := catalog.NewSeeder(infraRepo.NewProductGormRepository(e.db), c.Uint64("seed"), e.log)
	if c.Bool("if-empty") {
		_, err = seeder.SeedIfEmpty(c.Context, count)
	} else {
		_, err = seeder.Seed(c.Context, count)
	}
	return err
}

func importAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("import: file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	if err := db.Migrate(e.db); err != nil {
		return err
	}
	n, err := catalog.Import(c.Context, f, infraRepo.NewProductGormRepository(e.db))
	if err != nil {
		return err
	}
	e.log.Infoj(log.JSON{"msg": "products imported", "file": path, "count": n})
	return nil
}

func resetAction(c *cli.Context) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	if e.cfg.IsProduction() && !c.Bool("force") {
		return errors.New("reset: refusing to drop tables in production without --force")
	}
	if err := db.Reset(e.db); err != nil {
		return err
	}
	e.log.Warnj(log.JSON{"msg": "database reset"})

	_, err = catalog.NewSeeder(infraRepo.NewProductGormRepository(e.db), 0, e.log).Seed(c.Context, e.cfg.SeedCount)
	return err
}

func pingDB(e *env) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.Ping(ctx, e.db)
	}
}
