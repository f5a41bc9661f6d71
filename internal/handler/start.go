package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tarealabs/tareabot/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	// The actor loader already registered the user.
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "👋 ¡Bienvenida!\n" +
			"Acá ganás centavos USD con tareas reales.\n\n" +
			"📋 Comandos:\n" +
			"/task — recibir una tarea\n" +
			"/answer TU_RESPUESTA — enviar tu respuesta\n" +
			"/balance — ver tu saldo",
	})
}

func (h *Handler) handleWhoami(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return
	}

	admin := "NO"
	if actor.Admin {
		admin = "SI"
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("🆔 Tu ID: %d\n👑 Admin: %s", actor.TelegramID, admin),
	})
}
