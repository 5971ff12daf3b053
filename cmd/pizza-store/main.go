package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"pizza-store/internal/cli"
	"pizza-store/internal/config"
	"pizza-store/internal/connections/database"
	"pizza-store/internal/connections/rabbitmq"
	"pizza-store/internal/dbx"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
	"pizza-store/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	migrate := flag.Bool("migrate", false, "apply schema migrations before starting")
	migrationsDir := flag.String("migrations", "migrations", "directory with goose migrations")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Error("config_load", err, map[string]any{"path": *configPath})
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect", err, nil)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if *migrate {
		if err := database.Migrate(db, *migrationsDir); err != nil {
			lg.Error("db_migrate", err, nil)
			os.Exit(1)
		}
		lg.Info("db_migrated", map[string]any{"dir": *migrationsDir})
	}

	exec := dbx.New(db)
	users := repository.NewUsers(exec)
	catalog := repository.NewCatalog(exec)
	stores := repository.NewStores(exec)
	orders := repository.NewOrders(exec)

	var events *service.Events
	if cfg.RabbitMQ.Enabled() {
		mq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			// The broker is optional; orders still commit without it.
			lg.Error("rabbitmq_dial", err, nil)
		} else if err := mq.DeclareTopology(); err != nil {
			lg.Error("rabbitmq_declare", err, nil)
			mq.Close()
		} else {
			defer mq.Close()
			events = service.NewEvents(mq, logger.New("order-events"))
		}
	}

	accounts := service.NewAccounts(users, logger.New("accounts"))
	admin := service.NewAdmin(users, catalog, orders, logger.New("admin"))
	flow := service.NewOrderFlow(stores, catalog, orders, exec, events, logger.New("order-flow"))

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	app := cli.NewApp(accounts, admin, flow, catalog, stores, orders, prompter, os.Stdout, logger.New("cli"))

	if err := app.Run(ctx); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
	lg.Info("bye", nil)
}
