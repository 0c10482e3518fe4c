// Package reporter sends operator-facing alerts to a Telegram chat.
// Optional: with no token configured the watcher runs without it.
// Subscribers are never messaged here, this channel is for whoever runs
// the process.
package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobalert/internal/config"
	"go-jobalert/internal/models"
)

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

// SendCycleSummary reports one completed cycle.
func (t *TelegramReporter) SendCycleSummary(report models.CycleReport) error {
	text := fmt.Sprintf(
		"✅ <b>Cycle complete</b>\n"+
			"📦 Scraped: %d\n"+
			"🆕 New: %d\n"+
			"📧 Notified: %d (failed: %d)",
		report.Scraped,
		report.New,
		report.Notified,
		report.Failed,
	)
	return t.SendMessage(text)
}

// SendPersistentFailure escalates after scrape failures pile up across
// consecutive cycles.
func (t *TelegramReporter) SendPersistentFailure(failures int, lastErr error) error {
	text := fmt.Sprintf("⚠️ <b>Job watcher failing</b>: %d consecutive cycles\nLast error:\n%v", failures, lastErr)
	return t.SendMessage(text)
}
