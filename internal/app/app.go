package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/itired/itired/internal/bot"
	"github.com/itired/itired/internal/cache"
	"github.com/itired/itired/internal/config"
	"github.com/itired/itired/internal/handlers"
	"github.com/itired/itired/internal/listening"
	"github.com/itired/itired/internal/music"
	"github.com/itired/itired/internal/pg"
	"github.com/itired/itired/internal/repo"
	"github.com/itired/itired/internal/service"
	"github.com/itired/itired/pkg/auth"
	"github.com/itired/itired/pkg/clients"
	"github.com/itired/itired/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	scrob   *listening.Service
	sweeper *cache.Sweeper
	bot     *bot.Bot

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
	auth.SetSecret(cfg.JWTSecret)

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

	httpClient := clients.NewHTTPClient()
	registry := music.NewRegistry(
		music.NewYandexClient(cfg.YandexAPIURL, httpClient),
		music.NewVKClient(cfg.VKAPIURL, httpClient),
	)

	a.cfg = cfg
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(a.repo, txManager, registry, a.buildCacheStore(ctx, conn, cfg))
	a.api = handlers.New(a.srv)
	a.scrob = listening.New(registry, a.repo.UserRepo, a.repo.HistoryRepo, a.repo.StatsRepo)
	a.sweeper = cache.NewSweeper(cache.NewDBStore(conn))

	if cfg.TelegramToken != "" {
		tgBot, err := bot.New(cfg.TelegramToken, a.srv.TelegramService, a.srv.WalletService, a.srv.RewardService)
		if err != nil {
			zap.L().Error("can't start telegram bot: ", zap.Error(err))
			return fmt.Errorf("can't start telegram bot: %w", err)
		}
		a.bot = tgBot
		a.srv.TelegramService.SetNotifier(tgBot)
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}
	a.startBackground(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

// buildCacheStore prefers Redis and falls back to the database cache
// when Redis is unreachable.
func (a *Application) buildCacheStore(ctx context.Context, conn pg.Database, cfg *config.Config) cache.Store {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unavailable, using database cache", zap.Error(err))
		return cache.NewDBStore(conn)
	}
	return cache.NewRedisStore(client)
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
		Addr:    a.cfg.Address,
		Handler: router,
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
		if err := server.ListenAndServe(); err != nil {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startBackground(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.scrob.Start(ctx)
	}()

	if err := a.sweeper.Start(ctx); err != nil {
		zap.L().Error("can't start cache sweeper: ", zap.Error(err))
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		a.sweeper.Stop()
		a.scrob.Close()
	}()

	if a.bot != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.bot.Start(ctx)
		}()
	}
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
