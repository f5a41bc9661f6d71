package handler

import "github.com/go-telegram/bot"

// Register registers all command handlers on the bot instance.
func (h *Handler) Register() {
	// User commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/task", bot.MatchTypePrefix, h.handleTask)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/answer", bot.MatchTypePrefix, h.handleAnswer)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypePrefix, h.handleBalance)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/whoami", bot.MatchTypePrefix, h.handleWhoami)

	// Admin commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newcampaign", bot.MatchTypePrefix, h.handleNewCampaign)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addtask", bot.MatchTypePrefix, h.handleAddTask)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/approve", bot.MatchTypePrefix, h.handleApprove)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reject", bot.MatchTypePrefix, h.handleReject)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/closecampaign", bot.MatchTypePrefix, h.handleCloseCampaign)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pending", bot.MatchTypePrefix, h.handlePending)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/campaigns", bot.MatchTypePrefix, h.handleCampaigns)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stat", bot.MatchTypePrefix, h.handleStat)
}
