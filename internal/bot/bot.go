package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/apperr"
	"github.com/granabot/grana-bot/internal/bot/handlers"
	"github.com/granabot/grana-bot/internal/charts"
	"github.com/granabot/grana-bot/internal/classifier"
	"github.com/granabot/grana-bot/internal/conversation"
	"github.com/granabot/grana-bot/internal/flow"
	"github.com/granabot/grana-bot/internal/idempotency"
	"github.com/granabot/grana-bot/internal/middleware"
	"github.com/granabot/grana-bot/internal/repository"
	"github.com/granabot/grana-bot/internal/user"
	"github.com/granabot/grana-bot/pkg/config"
)

// Deps carries everything the update pipeline needs.
type Deps struct {
	Users        *user.Service
	States       conversation.Store
	Goals        *flow.GoalMachine
	Income       *flow.IncomeMachine
	Classifier   classifier.Classifier
	Transactions repository.TransactionRepository
	Charts       *charts.Renderer
	RateLimit    *middleware.RateLimitMiddleware
	Idempotency  idempotency.Manager
	ErrHandler   *apperr.Handler
}

// Bot wraps telebot.Bot with the routing pipeline.
type Bot struct {
	telebot    *telebot.Bot
	router     *Router
	dispatcher *Dispatcher
	sender     *Sender
	log        *slog.Logger
}

// NewTelebot builds the raw telebot instance from settings. It is separate
// from New so the flow machines can be constructed around a Sender first.
func NewTelebot(cfg config.BotConfig) (*telebot.Bot, error) {
	settings := telebot.Settings{Token: cfg.Token}

	if cfg.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen:   cfg.WebhookListen,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.WebhookPublicURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{Timeout: cfg.Timeout}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return tb, nil
}

// New wires the router, middleware chain, and handlers onto tb.
func New(tb *telebot.Bot, sender *Sender, deps Deps, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}

	dispatcher := NewDispatcher(log, deps.Goals, deps.Income)
	router := NewRouter(dispatcher, log)

	b := &Bot{
		telebot:    tb,
		router:     router,
		dispatcher: dispatcher,
		sender:     sender,
		log:        log,
	}

	b.setupRouter(deps)

	if deps.RateLimit != nil {
		tb.Use(deps.RateLimit.Handle)
	}

	tb.Handle(telebot.OnText, router.Route)

	return b
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying instance for health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter(deps Deps) {
	b.router.Use(RecoveryMiddleware(b.log, deps.ErrHandler))
	b.router.Use(middleware.Idempotency(deps.Idempotency, b.log))
	b.router.Use(ErrorHandlingMiddleware(deps.ErrHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics)
	b.router.Use(AuthMiddleware(deps.Users, b.log))

	startHandler := handlers.NewStartHandler(deps.Income, b.log)
	goalHandler := handlers.NewGoalHandler(deps.Goals, b.log)
	configureHandler := handlers.NewConfigureHandler(deps.Income, b.log)
	summaryHandler := handlers.NewSummaryHandler(deps.Transactions, deps.Charts, b.sender, b.log)
	fallback := handlers.NewFallbackHandler(deps.Classifier, deps.Goals, deps.Transactions, b.log)

	b.router.RegisterCommand(CommandStart, startHandler)
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(deps.States, b.log))
	b.router.RegisterCommand(CommandGoal, goalHandler)
	b.router.RegisterCommand(CommandConfigure, configureHandler)
	b.router.RegisterCommand(CommandSummary, summaryHandler)
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler())

	b.router.RegisterCommand(ButtonNewGoal, goalHandler)
	b.router.RegisterCommand(ButtonConfigure, configureHandler)
	b.router.RegisterCommand(ButtonSummary, summaryHandler)
	b.router.RegisterCommand(ButtonNewTransaction, handlers.NewQuickAddHandler())

	b.router.SetDefault(fallback)
}
