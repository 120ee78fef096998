package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"

	"github.com/granabot/grana-bot/internal/apperr"
	"github.com/granabot/grana-bot/internal/bot"
	"github.com/granabot/grana-bot/internal/charts"
	"github.com/granabot/grana-bot/internal/classifier"
	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/flow"
	"github.com/granabot/grana-bot/internal/health"
	"github.com/granabot/grana-bot/internal/idempotency"
	"github.com/granabot/grana-bot/internal/lifecycle"
	"github.com/granabot/grana-bot/internal/middleware"
	"github.com/granabot/grana-bot/internal/ratelimit"
	"github.com/granabot/grana-bot/internal/reminders"
	"github.com/granabot/grana-bot/internal/repository"
	"github.com/granabot/grana-bot/internal/user"
	"github.com/granabot/grana-bot/internal/usercache"
	"github.com/granabot/grana-bot/pkg/config"
	"github.com/granabot/grana-bot/pkg/graceful"
	"github.com/granabot/grana-bot/pkg/logger"
	pkgredis "github.com/granabot/grana-bot/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	log, err := logger.New(cfg.Log, logLevel)
	if err != nil {
		slog.Error("failed to initialize logger", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(log)

	config.Watch(v, func(v *viper.Viper, e fsnotify.Event) {
		logLevel.Set(logger.ParseLevel(v.GetString("log.level")))
		log.Info("configuration reloaded", slog.String("file", e.Name), slog.String("log_level", v.GetString("log.level")))
	})

	log.Info("starting grana-bot", slog.String("env", cfg.AppEnv))

	supaClient, err := repository.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.Key)
	if err != nil {
		log.Error("failed to initialize supabase client", slog.Any("error", err))
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = pkgredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
	}

	userRepo := repository.NewUserRepository(supaClient, log)
	goalRepo := repository.NewGoalRepository(supaClient, log)
	incomeRepo := repository.NewIncomeSourceRepository(supaClient, log)
	expenseRepo := repository.NewExpenseRepository(supaClient, log)
	categoryRepo := repository.NewCategoryRepository(supaClient, log)
	transactionRepo := repository.NewTransactionRepository(supaClient, log)

	var cache *usercache.Cache
	if redisClient != nil {
		cache = usercache.NewCache(redisClient.Client)
	}
	users := user.NewService(userRepo, cache, log)

	// Conversation state lives in Redis when available so open dialogs
	// survive a restart; otherwise in memory with a TTL sweeper.
	var states conversation.Store
	if redisClient != nil {
		states = conversation.NewRedisStore(redisClient.Client, log, cfg.Conversation.TTL)
	} else {
		memStore := conversation.NewMemoryStore()
		states = memStore
		cleaner := conversation.NewCleaner(memStore, log, cfg.Conversation.TTL, cfg.Conversation.CleanupInterval)
		go cleaner.Run(ctx)
	}

	tb, err := bot.NewTelebot(cfg.Bot)
	if err != nil {
		log.Error("failed to initialize telegram bot", slog.Any("error", err))
		os.Exit(1)
	}
	sender := bot.NewSender(tb, log)

	goalMachine := flow.NewGoalMachine(states, goalRepo, sender, log)
	incomeMachine := flow.NewIncomeMachine(states, incomeRepo, expenseRepo, categoryRepo, userRepo, sender, log)

	cls := classifier.NewHTTPClient(classifier.Config{
		URL:     cfg.Classifier.URL,
		APIKey:  cfg.Classifier.APIKey,
		Model:   cfg.Classifier.Model,
		Timeout: cfg.Classifier.Timeout,
	}, log)

	errHandler := apperr.NewHandler(log, cfg.Log.SentryEnabled)

	deps := bot.Deps{
		Users:        users,
		States:       states,
		Goals:        goalMachine,
		Income:       incomeMachine,
		Classifier:   cls,
		Transactions: transactionRepo,
		Charts:       charts.NewRenderer(),
		ErrHandler:   errHandler,
	}

	limiter := ratelimit.NewMemoryLimiter(log)
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient.Client, log)
	}
	rules := ratelimit.NewRules(ratelimit.Config{
		PerUserLimit:  cfg.RateLimit.PerUserLimit,
		PerUserWindow: cfg.RateLimit.PerUserWindow,
		Whitelist:     cfg.RateLimit.Whitelist,
	})
	deps.RateLimit = middleware.NewRateLimitMiddleware(limiter, rules, log)

	if redisClient != nil {
		deps.Idempotency = idempotency.NewManager(idempotency.NewRedisStore(redisClient.Client, log), log)

		go idempotency.NewCleaner(redisClient.Client, log, time.Hour).Run(ctx)
		go ratelimit.NewCleaner(redisClient.Client, log, 10*time.Minute).Run(ctx)
	}

	b := bot.New(tb, sender, deps, log)

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("telegram", func(context.Context) error {
		b.Stop()
		return nil
	})

	if redisClient != nil && cfg.Reminders.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		dueReader := repository.NewDueReader(supaClient, log)
		worker := reminders.NewWorker(redisOpt, log)
		worker.RegisterHandler(reminders.TaskTypeDueScan, reminders.NewDueScanHandler(dueReader, sender, log))
		go func() {
			if err := worker.Run(); err != nil {
				log.Error("reminders worker failed", slog.Any("error", err))
			}
		}()

		scheduler := reminders.NewScheduler(redisOpt, cfg.Reminders.CronSpec, log)
		if err := scheduler.RegisterTasks(); err != nil {
			log.Error("failed to register reminder tasks", slog.Any("error", err))
			os.Exit(1)
		}
		scheduler.Run()

		// Catch up on a scan the process may have slept through.
		manager := reminders.NewManager(redisOpt, log)
		if task, taskErr := reminders.NewDueScanTask(time.Time{}); taskErr == nil {
			if _, enqueueErr := manager.Enqueue(ctx, task); enqueueErr != nil {
				log.Warn("failed to enqueue startup due scan", slog.Any("error", enqueueErr))
			}
		}

		shutdown.Register("reminders", func(context.Context) error {
			scheduler.Shutdown()
			worker.Shutdown()
			return manager.Close()
		})
	}

	checker := health.NewChecker(log)
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient.Client))
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(tb))

	opsHandler := middleware.New(log)(graceful.NewOpsMux(func(r *http.Request) error {
		return checker.Healthy(r.Context())
	}))
	opsServer := graceful.NewServer(log, &http.Server{Addr: cfg.Server.Port, Handler: opsHandler}, cfg.Server.ShutdownTimeout)
	go func() {
		if err := opsServer.ListenAndServe(ctx); err != nil {
			log.Error("ops server terminated", slog.Any("error", err))
		}
	}()

	if redisClient != nil {
		shutdown.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}

	log.Info("grana-bot is up", slog.String("mode", cfg.Bot.Mode))
	go b.Start()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	log.Info("grana-bot stopped")
}
