package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tarealabs/tareabot/internal/domain"
	"github.com/tarealabs/tareabot/internal/service"
)

type ctxKey string

const actorKey ctxKey = "actor"

// GetActor extracts the resolved caller from context.
func GetActor(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey).(domain.Actor)
	return a, ok
}

// ActorLoader returns middleware that upserts the sender as a user and
// attaches a domain.Actor with admin rights resolved from config. Handlers
// and services never consult the admin list themselves. onRegister fires
// once per user, on first contact; may be nil.
func ActorLoader(userService *service.UserService, cfg interface{ IsAdmin(int64) bool }, onRegister func(telegramID int64, name, username string)) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil {
				next(ctx, b, update)
				return
			}

			created, err := userService.Upsert(ctx, from.ID)
			if err != nil {
				slog.Error("upsert user", "error", err, "user_id", from.ID)
			}
			if created && onRegister != nil {
				onRegister(from.ID, from.FirstName, from.Username)
			}

			ctx = context.WithValue(ctx, actorKey, domain.Actor{
				TelegramID: from.ID,
				Admin:      cfg.IsAdmin(from.ID),
			})
			next(ctx, b, update)
		}
	}
}
