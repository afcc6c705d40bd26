package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/commission"
	"github.com/GlebRadaev/smmpanel/internal/config"
	"github.com/GlebRadaev/smmpanel/internal/domain"
	"github.com/GlebRadaev/smmpanel/internal/events"
	"github.com/GlebRadaev/smmpanel/internal/fulfillment"
	"github.com/GlebRadaev/smmpanel/internal/handlers"
	"github.com/GlebRadaev/smmpanel/internal/pg"
	"github.com/GlebRadaev/smmpanel/internal/repo"
	"github.com/GlebRadaev/smmpanel/internal/service"
	"github.com/GlebRadaev/smmpanel/pkg/clients"
	"github.com/GlebRadaev/smmpanel/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type publisher interface {
	PublishOrders(ctx context.Context, orders []domain.Order) error
	Close() error
}

type Application struct {
	cfg        *config.Config
	api        *handlers.Handlers
	srv        *service.Services
	repo       *repo.Repositories
	publisher  publisher
	fulfiller  *fulfillment.Service
	reconciler *commission.Reconciler

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	conn := pg.New(pool)
	a.cfg = cfg
	a.publisher = newPublisher(cfg)
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(cfg, a.repo, txManager, a.publisher)
	a.api = handlers.New(a.srv, cfg.Currency)
	a.reconciler = commission.NewReconciler(a.repo.ReferralRepo, cfg.ReconcileInterval)
	if cfg.ProviderURL != "" {
		provider := clients.NewProviderClient(cfg.ProviderURL, cfg.ProviderKey)
		a.fulfiller = fulfillment.New(a.repo.OrderRepo, a.srv.BalanceService, provider, txManager, cfg.FulfillmentInterval)
	} else {
		zap.L().Warn("provider address is not set, orders stay pending")
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startWorkers(ctx, pool)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func newPublisher(cfg *config.Config) publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	zap.L().Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// startWorkers runs the background loops. The pool and the publisher are released once all of them return.
func (a *Application) startWorkers(ctx context.Context, pool *pgxpool.Pool) {
	var workers sync.WaitGroup

	if a.fulfiller != nil {
		workers.Add(1)
		go func() {
			defer workers.Done()
			a.fulfiller.Start(ctx)
		}()
	}

	workers.Add(1)
	go func() {
		defer workers.Done()
		a.reconciler.Start(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		workers.Wait()
		if err := a.publisher.Close(); err != nil {
			zap.L().Error("can't close publisher: ", zap.Error(err))
		}
		pool.Close()
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
