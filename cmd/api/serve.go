package main

import (
	"context"

	"ecoshop/internal/catalog"
	"ecoshop/internal/handler"
	"ecoshop/internal/infra/db"
	"ecoshop/internal/infra/rabbitmq"
	infraRepo "ecoshop/internal/infra/repository"
	"ecoshop/internal/outbox"
	"ecoshop/internal/server"
	"ecoshop/internal/usecase"
	auth "ecoshop/internal/usecase/auth_usecase"
	"ecoshop/internal/validator"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func serveAction(c *cli.Context) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := c.Context
	if err := db.Migrate(e.db); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(e.db)
	profileRepo := infraRepo.NewProfileGormRepository(e.db)
	addressRepo := infraRepo.NewAddressGormRepository(e.db)
	productRepo := infraRepo.NewProductGormRepository(e.db)
	orderRepo := infraRepo.NewOrderGormRepository(e.db)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(e.db)
	chatRepo := infraRepo.NewChatGormRepository(e.db)
	txm := infraRepo.NewTxManagerGorm(e.db)

	if e.cfg.SeedProducts {
		if _, err := catalog.NewSeeder(productRepo, 0, e.log).SeedIfEmpty(ctx, e.cfg.SeedCount); err != nil {
			return err
		}
	}

	//usecaseに渡す部品
	clock := auth.RealClock{}
	issuer, err := auth.NewJWTIssuer(e.cfg.JWTSecret, e.cfg.AccessTokenTTL)
	if err != nil {
		return err
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(
		userRepo,
		validator.NewAuthValidator(),
		auth.NewBcryptPasswordHasher(12),
		auth.NewBcryptPasswordVerifier(),
		issuer,
		clock,
		e.log,
	)
	profileUC := usecase.NewProfileUsecase(profileRepo, usecase.UUIDGenerator{}, e.log)
	addressUC := usecase.NewAddressUsecase(addressRepo, e.log)
	productUC := usecase.NewProductUsecase(productRepo, e.log)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, orderItemRepo, addressRepo, profileRepo, clock, e.log)
	chatUC := usecase.NewChatUsecase(chatRepo, clock, e.log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(server.Options{
		FEOrigins: e.cfg.FEOrigins,
		JWTSecret: e.cfg.JWTSecret,
		Users:     userRepo,
		Logger:    e.log,
		Registry:  reg,
	}, server.Handlers{
		Auth:    handler.NewAuthHandler(authUC, !e.cfg.IsProduction()),
		Profile: handler.NewProfileHandler(profileUC),
		Address: handler.NewAddressHandler(addressUC),
		Order:   handler.NewOrderHandler(orderUC),
		Product: handler.NewProductHandler(productUC),
		Chat:    handler.NewChatHandler(chatUC),
		Health:  handler.NewHealthHandler(pingDB(e)),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e.log.Infoj(log.JSON{"msg": "listening", "port": e.cfg.Port, "env": e.cfg.GoEnv})
		return server.Run(gctx, srv, ":"+e.cfg.Port, e.cfg.ShutdownTimeout)
	})

	//AMQP_URLがあるときだけoutbox relayを回す
	if e.cfg.AMQPURL != "" {
		g.Go(func() error {
			return runRelay(gctx, e, txm)
		})
	} else {
		e.log.Infoj(log.JSON{"msg": "AMQP_URL not set, outbox relay disabled"})
	}

	return g.Wait()
}

func runRelay(ctx context.Context, e *env, txm *infraRepo.TxManagerGorm) error {
	pub, err := rabbitmq.Dial(ctx, e.cfg.AMQPURL, rabbitmq.OrdersQueue, 15, e.log)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			e.log.Warnj(log.JSON{"msg": "close amqp", "error": err.Error()})
		}
	}()

	return outbox.NewRelay(txm, pub, e.cfg.OutboxPollInterval, e.cfg.OutboxBatchSize, e.log).Run(ctx)
}
