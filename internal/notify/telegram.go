// Package notify delivers projection-change alerts to Telegram.
package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// Min interval between any two Telegram messages to the same chat to avoid
// 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// TelegramNotifier batches detected projection changes into one message per
// refresh and sends them from a background worker. All methods are safe on a
// nil receiver so callers can run with notifications disabled.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	queue     chan []models.Change
	queueDone chan struct{}
	stopOnce  sync.Once
	stopCh    chan struct{}

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates a notifier. Returns nil (still usable as a
// no-op) when the bot cannot be reached.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	n := &TelegramNotifier{
		bot:       bot,
		chatID:    chatID,
		queue:     make(chan []models.Change, 16),
		queueDone: make(chan struct{}),
		stopCh:    make(chan struct{}),
	}
	go n.messageSender()

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return n
}

// NotifyChanges queues one batched alert for the refresh. Non-blocking; a
// full queue drops the batch with a warning.
func (n *TelegramNotifier) NotifyChanges(changes []models.Change) {
	if n == nil || n.bot == nil || len(changes) == 0 {
		return
	}

	batch := make([]models.Change, len(changes))
	copy(batch, changes)

	select {
	case <-n.stopCh:
	case n.queue <- batch:
	default:
		slog.Warn("Telegram message queue is full, dropping change batch", "changes", len(changes))
	}
}

// Stop shuts the notifier down after draining queued messages.
func (n *TelegramNotifier) Stop() {
	if n == nil {
		return
	}
	n.stopOnce.Do(func() {
		close(n.stopCh)
		<-n.queueDone
	})
}

func (n *TelegramNotifier) messageSender() {
	for {
		select {
		case <-n.stopCh:
			// Drain remaining messages before exit.
			for {
				select {
				case batch := <-n.queue:
					n.send(batch)
				default:
					close(n.queueDone)
					return
				}
			}
		case batch := <-n.queue:
			n.send(batch)
		}
	}
}

func (n *TelegramNotifier) send(changes []models.Change) {
	text := formatChangeAlert(changes)

	n.mu.Lock()
	if elapsed := time.Since(n.lastSend); elapsed < telegramSendInterval {
		wait := telegramSendInterval - elapsed
		n.mu.Unlock()
		select {
		case <-n.stopCh:
			slog.Warn("Telegram send: cancelled during rate-limit wait")
			return
		case <-time.After(wait):
		}
		n.mu.Lock()
	}
	n.lastSend = time.Now()
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Telegram send: failed", "error", err, "changes", len(changes))
		return
	}
	slog.Info("Telegram send: success", "changes", len(changes))
}

// formatChangeAlert renders one refresh's worth of projection moves.
func formatChangeAlert(changes []models.Change) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📊 *Projection changes (%d)*\n\n", len(changes)))
	for _, c := range changes {
		arrow := "🔺"
		if c.Delta() < 0 {
			arrow = "🔻"
		}
		builder.WriteString(fmt.Sprintf("%s *%s* (%s): %.1f → %.1f (%+.1f)\n",
			arrow, escapeMarkdown(c.Player), c.NFLTeam, c.Old, c.New, c.Delta()))
	}
	return builder.String()
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
