package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/middleware"
)

func (h *Handler) handleAnswer(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	taskID, ok := h.assignmentService.Current(actor.TelegramID)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Pedí una tarea primero con /task",
		})
		return
	}

	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usá: /answer TU_RESPUESTA",
		})
		return
	}
	answer := strings.TrimSpace(parts[1])

	sub, err := h.submissionService.Submit(ctx, actor.TelegramID, taskID, answer)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			h.assignmentService.Clear(actor.TelegramID)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Esa tarea ya no existe. Pedí otra con /task",
			})
			return
		}
		slog.Error("submit answer", "error", err, "user_id", actor.TelegramID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ Algo salió mal. Probá de nuevo.",
		})
		return
	}

	h.assignmentService.Clear(actor.TelegramID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("🕵️ Envío #%d en revisión.", sub.ID),
	})
}
