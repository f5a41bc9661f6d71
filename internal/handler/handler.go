package handler

import (
	"github.com/go-telegram/bot"
	"github.com/tarealabs/tareabot/internal/config"
	"github.com/tarealabs/tareabot/internal/repository"
	"github.com/tarealabs/tareabot/internal/service"
	"github.com/tarealabs/tareabot/internal/telegram"
)

// Handler holds all dependencies needed by command handlers.
type Handler struct {
	bot               *bot.Bot
	cfg               *config.Config
	userService       *service.UserService
	campaignService   *service.CampaignService
	submissionService *service.SubmissionService
	assignmentService *service.AssignmentService
	approvalService   *service.ApprovalService
	store             repository.Store
	tgLogger          *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot               *bot.Bot
	Cfg               *config.Config
	UserService       *service.UserService
	CampaignService   *service.CampaignService
	SubmissionService *service.SubmissionService
	AssignmentService *service.AssignmentService
	ApprovalService   *service.ApprovalService
	Store             repository.Store
	TgLogger          *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:               deps.Bot,
		cfg:               deps.Cfg,
		userService:       deps.UserService,
		campaignService:   deps.CampaignService,
		submissionService: deps.SubmissionService,
		assignmentService: deps.AssignmentService,
		approvalService:   deps.ApprovalService,
		store:             deps.Store,
		tgLogger:          deps.TgLogger,
	}
}
