package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/bot/handlers"
	"github.com/granabot/grana-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordMessage(extractHandlerLabel(c), status, time.Since(start))

		return err
	}
}

// extractHandlerLabel keeps label cardinality bounded: commands report their
// own name, everything else collapses to "text".
func extractHandlerLabel(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	text := c.Text()
	if strings.HasPrefix(text, "/") {
		if idx := strings.IndexByte(text, ' '); idx >= 0 {
			text = text[:idx]
		}
		return text
	}

	if text != "" {
		return "text"
	}

	return "unknown"
}
