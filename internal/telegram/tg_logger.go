package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/tarealabs/tareabot/internal/config"
)

const MaxMessageLen = 4096

// TelegramLogger mirrors notable ledger events to an admin chat. All
// methods are best-effort; a failed send never affects the operation that
// triggered it.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError        LogType = "error"
	LogTypePayout       LogType = "payout"
	LogTypeRegistration LogType = "registration"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogPayout(telegramID int64, taskTitle string, amountCents int64) {
	msg := fmt.Sprintf("💸 *Payout*\n\n*User:* `%d`\n*Task:* %s\n*Amount:* %s",
		telegramID, taskTitle, USD(amountCents))
	l.Log(LogTypePayout, msg)
}

func (l *TelegramLogger) LogRegistration(telegramID int64, name, username string) {
	msg := fmt.Sprintf("👤 *New user*\n\n*ID:* `%d`\n*Name:* %s\n*Username:* @%s",
		telegramID, name, username)
	l.Log(LogTypeRegistration, msg)
}

func (l *TelegramLogger) LogCampaignExhausted(campaignID, submissionID int64) {
	msg := fmt.Sprintf("🚫 *Campaign exhausted*\n\n*Campaign:* `%d`\n*Submission:* `%d` closed unpaid",
		campaignID, submissionID)
	l.Log(LogTypePayout, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypePayout:
		return l.cfg.LogTopicPayout
	case LogTypeRegistration:
		return l.cfg.LogTopicRegistration
	default:
		return 0
	}
}
