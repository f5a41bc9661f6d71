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

func (h *Handler) handleTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	assignment, err := h.assignmentService.Next(ctx, actor.TelegramID)
	if err != nil {
		slog.Error("next task", "error", err, "user_id", actor.TelegramID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ Algo salió mal. Probá de nuevo.",
		})
		return
	}
	if assignment == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 No hay tareas disponibles.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"🧩 %s\n%s\n\nRecompensa: %s\n\nRespondé con:\n/answer TU_RESPUESTA",
			assignment.Title, assignment.Prompt, tg.USD(assignment.Reward),
		),
	})
}
