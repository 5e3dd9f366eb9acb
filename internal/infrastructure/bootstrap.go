package infrastructure

import (
	"context"

	"paycode/internal/config"
	"paycode/internal/repository"
	"paycode/internal/service"
	transportHTTP "paycode/internal/transport/http"
	transportNATS "paycode/internal/transport/nats"
	"paycode/internal/worker"
)

// Bootstrap initialises all dependencies from config and wires up the
// application. Returns the App, a cleanup function, or an error.
func Bootstrap(ctx context.Context) (*App, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	db, err := connectPostgres(cfg.DSN())
	if err != nil {
		return nil, nil, err
	}

	rdb, err := connectRedis(cfg.RedisAddr())
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	var cleanupFns []func()
	cleanupFns = append(cleanupFns, func() {
		db.Close()
		_ = rdb.Close()
	})

	store := repository.NewStore(db, rdb)

	// The bus is optional: without NATS, settlement still commits and only
	// the event fan-out is lost.
	var bus repository.MessageBus
	var servers []Server

	nc, err := connectNats(cfg.NatsAddr())
	if err != nil {
		return nil, runCleanup(cleanupFns), err
	}

	var svc service.PaymentService
	if nc != nil {
		bus = transportNATS.NewBus(nc)
		cleanupFns = append(cleanupFns, nc.Close)
	}
	svc = service.NewEngine(store, bus, cfg.BankAccountID)

	if nc != nil {
		servers = append(servers, transportNATS.NewHandler(svc, nc))
		servers = append(servers, worker.NewWebhookWorker(nc, cfg.WebhookURL))
	}

	if addr, apiErr := cfg.ApiAddr(); apiErr == nil {
		servers = append(servers, transportHTTP.NewServer(addr, svc))
	}

	return NewApp(servers), runCleanup(cleanupFns), nil
}

// runCleanup returns a single function that calls all cleanup functions in reverse order.
func runCleanup(fns []func()) func() {
	return func() {
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	}
}
