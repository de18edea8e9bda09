package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "warfront/internal/adapter/http"
	staticmaps "warfront/internal/adapter/maps/static"
	metricsinmem "warfront/internal/adapter/metrics/inmemory"
	"warfront/internal/adapter/notify/redisstream"
	gormrepo "warfront/internal/adapter/repo/gorm"
	"warfront/internal/adapter/repo/memory"
	"warfront/internal/adapter/rules/classic"
	"warfront/internal/app/action"
	"warfront/internal/app/lobby"
	"warfront/internal/app/notify"
	"warfront/internal/app/ports"
	"warfront/internal/app/status"
	"warfront/internal/app/timeline"
	"warfront/internal/app/timeout"
	"warfront/internal/platform/config"
	"warfront/internal/platform/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("build repositories")
	}
	dispatcher, closeDispatcher, err := buildDispatcher(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("build notification dispatcher")
	}
	defer closeDispatcher()

	maps := staticmaps.Provider{Root: cfg.MapsDir}
	engine := classic.Engine{}
	kpiRecorder := metricsinmem.NewRecorder()
	notifier := notify.UseCase{
		Games:      repos.games,
		Dispatcher: dispatcher,
		Logger:     logger,
		Timeout:    cfg.NotifyTimeout,
	}
	scheduler := timeout.Scheduler{
		TxManager:   repos.tx,
		Games:       repos.games,
		Logs:        repos.logs,
		Maps:        maps,
		Engine:      engine,
		Metrics:     kpiRecorder,
		Notifier:    notifier,
		Logger:      logger,
		Concurrency: cfg.TimeoutConcurrency,
		Now:         time.Now,
	}

	jobs := cron.New()
	if err := scheduleTimeouts(ctx, jobs, cfg.TimeoutSchedule, scheduler, logger); err != nil {
		logger.WithError(err).Fatal("schedule timeouts")
	}
	jobs.Start()
	defer jobs.Stop()

	h := httpadapter.Handler{
		LobbyUC: lobby.UseCase{
			TxManager: repos.tx,
			Games:     repos.games,
			Maps:      maps,
			Engine:    engine,
			Notifier:  notifier,
			Now:       time.Now,
		},
		ActionUC: action.UseCase{
			TxManager: repos.tx,
			Games:     repos.games,
			Logs:      repos.logs,
			Maps:      maps,
			Engine:    engine,
			Metrics:   kpiRecorder,
			Notifier:  notifier,
			Now:       time.Now,
		},
		StatusUC:   status.UseCase{Games: repos.games},
		TimelineUC: timeline.UseCase{Games: repos.games, Logs: repos.logs, Maps: maps, Engine: engine},
		Timeouts:   scheduler,
		KPI:        kpiRecorder,

		AllowedOrigins: cfg.CORSOrigins,
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	logger.WithFields(logrus.Fields{
		"addr":     cfg.HTTPAddr,
		"postgres": cfg.UsePostgres(),
		"redis":    cfg.RedisURL != "",
	}).Info("warfront server listening")
	s.Spin()
}

type repos struct {
	tx    ports.TxManager
	games ports.GameRepository
	logs  ports.ActionLogRepository
}

func buildRepos(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (repos, error) {
	if !cfg.UsePostgres() {
		logger.Warn("WARFRONT_DB_DSN not set, games are kept in memory only")
		store := memory.NewStore()
		return repos{
			tx:    memory.NewTxManager(store),
			games: memory.NewGameRepo(store),
			logs:  memory.NewActionLogRepo(store),
		}, nil
	}
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return repos{}, err
	}
	if cfg.AutoMigrate {
		if err := gormrepo.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			return repos{}, err
		}
	}
	return repos{
		tx:    gormrepo.NewTxManager(db),
		games: gormrepo.NewGameRepo(db),
		logs:  gormrepo.NewActionLogRepo(db),
	}, nil
}

func buildDispatcher(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (ports.TurnDispatcher, func(), error) {
	if cfg.RedisURL == "" {
		return redisstream.LogDispatcher{Logger: logger}, func() {}, nil
	}
	client, err := redisstream.Open(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return redisstream.New(client, cfg.NotifyStream), closeQuietly(client, logger), nil
}

func closeQuietly(c io.Closer, logger logrus.FieldLogger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.WithError(err).Warn("close redis client")
		}
	}
}

type timeoutPass interface {
	RunOnce(ctx context.Context) (timeout.Summary, error)
}

// scheduleTimeouts registers one scheduler pass per cron tick. Overlapping
// ticks are skipped while a pass is still running.
func scheduleTimeouts(ctx context.Context, c *cron.Cron, spec string, pass timeoutPass, logger logrus.FieldLogger) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		summary, err := pass.RunOnce(ctx)
		entry := logger.WithFields(logrus.Fields{
			"expired":  summary.Expired,
			"resolved": summary.Resolved,
			"skipped":  summary.Skipped,
			"failed":   summary.Failed,
		})
		if err != nil {
			entry.WithError(err).Error("timeout pass failed")
			return
		}
		if summary.Expired > 0 {
			entry.Info("timeout pass")
		}
	}))
	if _, err := c.AddJob(spec, job); err != nil {
		return fmt.Errorf("timeout schedule %q: %w", spec, err)
	}
	return nil
}
