// cmd/unit-lookup/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unit-lookup/internal/bot"
	"unit-lookup/internal/common/camunda"
	"unit-lookup/internal/common/config"
	"unit-lookup/internal/common/database"
	commonhttp "unit-lookup/internal/common/http"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/common/observability"
	"unit-lookup/internal/httpapi"
	"unit-lookup/internal/records"
	interpretcode "unit-lookup/internal/workers/lookup/interpret-code"
	matchrecord "unit-lookup/internal/workers/lookup/match-record"
	unitlookup "unit-lookup/internal/workers/lookup/unit-lookup"
	"unit-lookup/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var httpOnly bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if !httpOnly {
				if err := config.ValidateForBot(cfg); err != nil {
					return err
				}
			}
			return runServe(cfg, httpOnly)
		},
	}
	cmd.Flags().BoolVar(&httpOnly, "http-only", false, "serve the HTTP API without connecting to Telegram")
	return cmd
}

func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}

		log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
			"error":       err,
			"attempt":     i + 1,
			"maxRetries":  maxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func runServe(cfg *config.Config, httpOnly bool) error {
	zapLog, log := newLogger(cfg)
	defer zapLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown(context.Background())

	reg, err := loadRegistry(cfg.Registry.Path, log)
	if err != nil {
		return err
	}

	var src records.Source
	err = retryWithBackoff(ctx, func() error {
		var err error
		src, err = records.Open(ctx, cfg, log)
		return err
	}, 5, 2*time.Second, log, "record source")
	if err != nil {
		return err
	}
	defer src.Close()

	lookupHandler := unitlookup.NewHandler(unitlookup.ConfigFrom(cfg), src, log, obs)
	interpretHandler := interpretcode.NewHandler(&interpretcode.Config{
		Timeout: 5 * time.Second,
		Ranges:  interpretcode.RangesFromConfig(cfg.Lookup),
	}, log)

	deps := httpapi.Deps{
		Lookup:           lookupHandler,
		Interpreter:      interpretHandler,
		Registry:         reg,
		Source:           src,
		ReadyChecksStore: cfg.HTTP.ReadyChecksStore,
		Logger:           log,
	}

	botDone := make(chan struct{})
	if httpOnly {
		close(botDone)
	} else {
		stopBot, err := startBot(ctx, cfg, lookupHandler, &deps, log, botDone)
		if err != nil {
			return err
		}
		defer stopBot()
	}

	if cfg.Camunda.Enabled {
		stopWorkers, err := startWorkers(ctx, cfg, reg, src, obs, log)
		if err != nil {
			return err
		}
		defer stopWorkers()
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.HTTP.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err = <-serveErr:
		log.Error("http server failed", map[string]interface{}{"error": err})
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", map[string]interface{}{"error": err})
	}

	select {
	case <-botDone:
	case <-shutdownCtx.Done():
		log.Warn("bot did not stop in time", nil)
	}
	return err
}

func loadRegistry(path string, log logger.Logger) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Warn("activity registry not found, using built-in copy", map[string]interface{}{"path": path})
		reg = registry.Default()
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("activity registry %s: %w", path, err)
	}
	return reg, nil
}

// startBot connects to Telegram and runs the bot until ctx is done. In
// webhook mode it sets deps.Webhook so the HTTP router receives updates.
func startBot(ctx context.Context, cfg *config.Config, lookup bot.Looker, deps *httpapi.Deps, log logger.Logger, done chan<- struct{}) (func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var dedupe bot.Deduper = bot.NoopDeduper{}
	if cfg.Database.Redis.Address != "" {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		if err := retryWithBackoff(ctx, func() error { return rc.Ping(ctx) }, 5, time.Second, log, "redis connection"); err != nil {
			rc.Close()
			return nil, err
		}
		cleanups = append(cleanups, func() { rc.Close() })
		dedupe = bot.NewRedisDeduper(rc.GetClient(), config.GetDuration(cfg.Telegram.DedupeTTL))
		log.Info("update dedupe enabled", map[string]interface{}{"ttl_ms": cfg.Telegram.DedupeTTL})
	}

	httpClient := commonhttp.NewClient(time.Duration(cfg.Telegram.PollTimeout+15) * time.Second)

	var api *tgbotapi.BotAPI
	err := retryWithBackoff(ctx, func() error {
		var err error
		api, err = bot.NewTelegramAPI(cfg.Telegram, httpClient)
		return err
	}, 5, 2*time.Second, log, "telegram auth")
	if err != nil {
		cleanup()
		return nil, err
	}
	log.Info("telegram authorized", map[string]interface{}{"bot": api.Self.UserName, "mode": cfg.Telegram.Mode})

	var updates <-chan tgbotapi.Update
	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		receiver := bot.NewWebhookReceiver(cfg.Telegram.QueueSize, log)
		if err := bot.RegisterWebhook(api, cfg.Telegram.WebhookURL); err != nil {
			cleanup()
			return nil, err
		}
		deps.Webhook = receiver
		deps.WebhookPath = cfg.Telegram.WebhookPath
		updates = receiver.Updates()
	default:
		ch, err := bot.StartPolling(api, cfg.Telegram.PollTimeout)
		if err != nil {
			cleanup()
			return nil, err
		}
		cleanups = append(cleanups, api.StopReceivingUpdates)
		updates = ch
	}

	layout := matchrecord.LayoutFromConfig(cfg.Lookup)
	b := bot.New(cfg.Telegram, layout, api, lookup, dedupe, log)
	go func() {
		defer close(done)
		b.Run(ctx, updates)
	}()
	return cleanup, nil
}

// startWorkers opens the Zeebe job workers for the lookup task types.
func startWorkers(ctx context.Context, cfg *config.Config, reg *registry.ActivityRegistry, src records.Source, obs *observability.Observability, log logger.Logger) (func(), error) {
	var client *camunda.Client
	err := retryWithBackoff(ctx, func() error {
		var err error
		client, err = camunda.NewClient(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		return nil, err
	}
	log.Info("Zeebe client connected successfully", nil)

	zc := client.GetClient()
	lookupHandler := unitlookup.NewHandler(unitlookup.ConfigFrom(cfg), src, log, obs)
	interpretHandler := interpretcode.NewHandler(&interpretcode.Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, interpretcode.TaskType).Timeout),
		Ranges:  interpretcode.RangesFromConfig(cfg.Lookup),
	}, log)
	matchHandler := matchrecord.NewHandler(&matchrecord.Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, matchrecord.TaskType).Timeout),
		Layout:  matchrecord.LayoutFromConfig(cfg.Lookup),
	}, log)

	var workers []worker.JobWorker
	for taskType, handle := range map[string]camunda.HandlerFunc{
		unitlookup.TaskType:    lookupHandler.Handle,
		interpretcode.TaskType: interpretHandler.Handle,
		matchrecord.TaskType:   matchHandler.Handle,
	} {
		if a, err := reg.Find(taskType); err != nil || !a.ServedOver("zeebe") {
			log.Warn("task type not registered for zeebe, skipping worker", map[string]interface{}{
				"taskType": taskType,
			})
			continue
		}
		if jw := camunda.StartJobWorker(zc, taskType, config.GetWorkerConfig(cfg, taskType), handle, log); jw != nil {
			workers = append(workers, jw)
		}
	}

	return func() {
		for _, jw := range workers {
			jw.Close()
		}
		client.Close()
	}, nil
}
