package bot

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/bot/handlers"
)

// Router directs commands to registered handlers, gives open dialog flows the
// first chance at plain text, and falls back to the default handler.
type Router struct {
	mu             sync.RWMutex
	commands       map[string]handlers.Handler
	dispatcher     *Dispatcher
	defaultHandler handlers.Handler
	middlewares    []handlers.Middleware
	log            *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:    make(map[string]handlers.Handler),
		dispatcher:  dispatcher,
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers a handler for a bot command.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// Use appends a middleware to the chain. Middlewares wrap the whole route so
// auth runs before flow dispatch.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// SetDefault sets the fallback handler for text no flow consumed.
func (r *Router) SetDefault(h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = h
}

// Route runs the middleware chain around the routing logic for one update.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	wrapped := r.applyMiddlewares(r.route)
	if wrapped == nil {
		return nil
	}

	return wrapped(c)
}

func (r *Router) route(c telebot.Context) error {
	text := c.Text()

	if strings.HasPrefix(text, "/") {
		if handler := r.getCommandHandler(commandName(text)); handler != nil {
			return handler(c)
		}
	} else if handler := r.getCommandHandler(text); handler != nil {
		// Main-menu reply buttons are registered under their labels.
		return handler(c)
	}

	consumed, err := r.dispatchFlow(c, text)
	if err != nil {
		return err
	}
	if consumed {
		return nil
	}

	if handler := r.getDefaultHandler(); handler != nil {
		return handler(c)
	}

	return nil
}

func (r *Router) dispatchFlow(c telebot.Context, text string) (bool, error) {
	if r.dispatcher == nil {
		return false, nil
	}

	u := handlers.CurrentUser(c)
	if u == nil || c.Chat() == nil {
		return false, nil
	}

	return r.dispatcher.HandleMessage(context.Background(), u.ID, c.Chat().ID, text)
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	handler := r.commands[cmd]
	r.mu.RUnlock()
	return handler
}

func (r *Router) getDefaultHandler() handlers.Handler {
	r.mu.RLock()
	handler := r.defaultHandler
	r.mu.RUnlock()
	return handler
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}

// commandName strips bot-name suffixes and arguments: "/meta@grana_bot x"
// routes as "/meta".
func commandName(text string) string {
	cmd := text
	if idx := strings.IndexByte(cmd, ' '); idx >= 0 {
		cmd = cmd[:idx]
	}
	if idx := strings.IndexByte(cmd, '@'); idx >= 0 {
		cmd = cmd[:idx]
	}

	return cmd
}
