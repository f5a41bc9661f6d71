package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tarealabs/tareabot/internal/middleware"
	tg "github.com/tarealabs/tareabot/internal/telegram"
)

func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return
	}

	user, err := h.userService.Get(ctx, actor.TelegramID)
	if err != nil {
		slog.Error("get balance", "error", err, "user_id", actor.TelegramID)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("💰 Tu saldo: %s", tg.USD(user.Balance)),
	})
}
