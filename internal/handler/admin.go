package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/middleware"
	tg "github.com/tarealabs/tareabot/internal/telegram"
)

// adminActor returns the actor if the caller is an admin. Non-admins are
// ignored silently, matching the bot's original behavior.
func adminActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok || !actor.Admin {
		return domain.Actor{}, false
	}
	return actor, true
}

func (h *Handler) handleNewCampaign(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	actor, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	// /newcampaign name|budget_cents
	parts := strings.Split(update.Message.Text, "|")
	if len(parts) != 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usá: /newcampaign nombre|presupuesto_en_centavos",
		})
		return
	}
	name := strings.TrimSpace(strings.TrimPrefix(parts[0], "/newcampaign"))
	budget, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Presupuesto inválido.",
		})
		return
	}

	campaign, err := h.campaignService.Create(ctx, actor, name, budget)
	if err != nil {
		h.replyAdminError(ctx, b, chatID, "create campaign", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Campaña #%d creada con presupuesto %s", campaign.ID, tg.USD(campaign.Budget)),
	})
}

func (h *Handler) handleAddTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	actor, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	// /addtask campaign_id|title|reward_cents|prompt
	parts := strings.Split(update.Message.Text, "|")
	if len(parts) != 4 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usá: /addtask campaña|título|recompensa_en_centavos|consigna",
		})
		return
	}
	campaignID, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(parts[0], "/addtask")), 10, 64)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ ID de campaña inválido.",
		})
		return
	}
	reward, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Recompensa inválida.",
		})
		return
	}
	title := strings.TrimSpace(parts[1])
	prompt := strings.TrimSpace(parts[3])

	task, err := h.campaignService.AddTask(ctx, actor, campaignID, title, prompt, reward)
	if err != nil {
		h.replyAdminError(ctx, b, chatID, "add task", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Tarea #%d creada (%s por %s)", task.ID, task.Title, tg.USD(task.Reward)),
	})
}

func (h *Handler) handleApprove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	actor, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	submissionID, ok := parseIDArg(update.Message.Text)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usá: /approve id_de_envío",
		})
		return
	}

	outcome, err := h.approvalService.Approve(ctx, actor, submissionID)
	if err != nil {
		h.replyAdminError(ctx, b, chatID, "approve submission", err)
		return
	}

	switch outcome.Status {
	case domain.SubmissionStatusApproved:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf("✅ Envío #%d aprobado. Recompensa %s acreditada.",
				outcome.SubmissionID, tg.USD(outcome.RewardCents)),
		})
		h.tgLogger.LogPayout(outcome.UserID, fmt.Sprintf("submission #%d", outcome.SubmissionID), outcome.RewardCents)
	case domain.SubmissionStatusClosedUnpaid:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf("🚫 Presupuesto agotado. Campaña #%d cerrada, envío #%d sin pago.",
				outcome.CampaignID, outcome.SubmissionID),
		})
		h.tgLogger.LogCampaignExhausted(outcome.CampaignID, outcome.SubmissionID)
	}
}

func (h *Handler) handleReject(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	actor, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	submissionID, ok := parseIDArg(update.Message.Text)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usá: /reject id_de_envío",
		})
		return
	}

	outcome, err := h.approvalService.Reject(ctx, actor, submissionID)
	if err != nil {
		h.replyAdminError(ctx, b, chatID, "reject submission", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("❌ Envío #%d rechazado sin pago.", outcome.SubmissionID),
	})
}

func (h *Handler) handleCloseCampaign(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	actor, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	campaignID, ok := parseIDArg(update.Message.Text)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usá: /closecampaign id_de_campaña",
		})
		return
	}

	if err := h.campaignService.Close(ctx, actor, campaignID); err != nil {
		h.replyAdminError(ctx, b, chatID, "close campaign", err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Campaña #%d desactivada.", campaignID),
	})
}

func (h *Handler) handlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	actor, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	subs, err := h.approvalService.Pending(ctx, actor)
	if err != nil {
		h.replyAdminError(ctx, b, chatID, "list pending", err)
		return
	}
	if len(subs) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 No hay envíos pendientes.",
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("🕵️ Envíos pendientes:\n\n")
	for _, s := range subs {
		sb.WriteString(fmt.Sprintf("#%d — usuario %d, tarea %d\n%s\n\n", s.ID, s.TelegramID, s.TaskID, s.Answer))
	}
	sb.WriteString("Aprobá con /approve id o rechazá con /reject id")

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   sb.String(),
	})
}

func (h *Handler) handleCampaigns(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	actor, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	campaigns, err := h.campaignService.List(ctx, actor)
	if err != nil {
		h.replyAdminError(ctx, b, chatID, "list campaigns", err)
		return
	}
	if len(campaigns) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📭 No hay campañas.",
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 Campañas:\n\n")
	for _, c := range campaigns {
		state := "activa"
		if !c.Active {
			state = "cerrada"
		}
		sb.WriteString(fmt.Sprintf("#%d %s — gastado %s de %s (%s)\n",
			c.ID, c.Name, tg.USD(c.Spent), tg.USD(c.Budget), state))
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   sb.String(),
	})
}

func (h *Handler) handleStat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	_, ok := adminActor(ctx)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	totalUsers, _ := h.store.CountUsers(ctx)
	pending, _ := h.store.CountSubmissionsByStatus(ctx, domain.SubmissionStatusPending)
	approved, _ := h.store.CountSubmissionsByStatus(ctx, domain.SubmissionStatusApproved)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf("📊 Estadísticas\n\nUsuarios: %d\nEnvíos pendientes: %d\nEnvíos aprobados: %d",
			totalUsers, pending, approved),
	})
}

// replyAdminError maps core errors to short admin-facing replies and logs
// the rest as hard failures.
func (h *Handler) replyAdminError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	var text string
	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		text = "❌ No encontrado."
	case errors.Is(err, domain.ErrInvalidState):
		text = "❌ Ese envío ya fue decidido."
	case errors.Is(err, domain.ErrInvalidAmount):
		text = "❌ Monto inválido."
	case errors.Is(err, domain.ErrConcurrencyConflict):
		text = "⏳ Conflicto de concurrencia. Probá de nuevo."
	case errors.Is(err, domain.ErrUnauthorized):
		return
	default:
		slog.Error(op, "error", err)
		h.tgLogger.LogError(err, op)
		text = "⚠️ Algo salió mal. Probá de nuevo."
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}

func parseIDArg(text string) (int64, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
