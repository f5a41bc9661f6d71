package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tarealabs/tareabot/internal/config"
)

type rateWindow struct {
	start time.Time
	count int
}

type rateLimiter struct {
	mu        sync.Mutex
	windows   map[int64]*rateWindow
	lastSweep time.Time
}

func newRateLimiter(now time.Time) *rateLimiter {
	return &rateLimiter{
		windows:   make(map[int64]*rateWindow),
		lastSweep: now,
	}
}

// allow counts a message against the chat's minute window. At most once a
// minute it also evicts every expired window, so idle chats do not pin
// entries forever.
func (r *rateLimiter) allow(chatID int64, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) > time.Minute {
		for id, w := range r.windows {
			if now.Sub(w.start) > time.Minute {
				delete(r.windows, id)
			}
		}
		r.lastSweep = now
	}

	w, ok := r.windows[chatID]
	if !ok || now.Sub(w.start) > time.Minute {
		w = &rateWindow{start: now}
		r.windows[chatID] = w
	}
	w.count++
	return w.count <= config.RateLimitPerMinute
}

func (r *rateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}

// RateLimit returns middleware that enforces a per-chat per-minute message
// limit with an in-memory sliding window.
func RateLimit() bot.Middleware {
	limiter := newRateLimiter(time.Now())

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.allow(chatID, time.Now()) {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Demasiados mensajes. Esperá un momento.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
