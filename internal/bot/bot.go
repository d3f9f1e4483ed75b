// Package bot answers Telegram messages with unit lookups. Updates are
// handled one at a time, each against a fresh store snapshot.
package bot

import (
	"context"
	"fmt"
	"time"

	"unit-lookup/internal/common/config"
	apperrors "unit-lookup/internal/common/errors"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/common/metrics"
	matchrecord "unit-lookup/internal/workers/lookup/match-record"
	unitlookup "unit-lookup/internal/workers/lookup/unit-lookup"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is satisfied by *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Looker runs one lookup; satisfied by *unitlookup.Handler.
type Looker interface {
	Execute(ctx context.Context, input *unitlookup.Input) (*unitlookup.Output, error)
}

type Bot struct {
	sender       Sender
	lookup       Looker
	dedupe       Deduper
	layout       matchrecord.Layout
	replyTimeout time.Duration
	logger       logger.Logger
}

func New(cfg config.TelegramConfig, layout matchrecord.Layout, sender Sender, lookup Looker, dedupe Deduper, log logger.Logger) *Bot {
	if dedupe == nil {
		dedupe = NoopDeduper{}
	}
	timeout := config.GetDuration(cfg.ReplyTimeout)
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Bot{
		sender:       sender,
		lookup:       lookup,
		dedupe:       dedupe,
		layout:       layout,
		replyTimeout: timeout,
		logger:       log.WithFields(map[string]interface{}{"component": "telegram"}),
	}
}

// Run handles updates until ctx is done or the channel is closed.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := b.HandleUpdate(ctx, u); err != nil {
				b.logger.WithError(err).Error("update failed", map[string]interface{}{
					"updateId": u.UpdateID,
				})
			}
		}
	}
}

// HandleUpdate replies to one update. Only a failed send is returned as an
// error; everything else becomes a reply.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) error {
	if u.Message == nil || u.Message.Chat == nil {
		metrics.TelegramUpdates.WithLabelValues("ignored").Inc()
		return nil
	}

	claimed, err := b.dedupe.Claim(ctx, u.UpdateID)
	if err != nil {
		b.logger.Warn("dedupe unavailable, handling update anyway", map[string]interface{}{
			"updateId": u.UpdateID,
			"error":    err,
		})
		claimed = true
	}
	if !claimed {
		metrics.TelegramUpdates.WithLabelValues("duplicate").Inc()
		b.logger.Debug("duplicate update dropped", map[string]interface{}{"updateId": u.UpdateID})
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.replyTimeout)
	defer cancel()

	text, outcome := b.reply(ctx, u)
	metrics.TelegramUpdates.WithLabelValues(outcome).Inc()

	chatID := u.Message.Chat.ID
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.sender.Send(msg); err != nil {
		metrics.TelegramUpdates.WithLabelValues("send_failed").Inc()
		return apperrors.NewMessageSendFailedError(chatID, err)
	}
	return nil
}

func (b *Bot) reply(ctx context.Context, u tgbotapi.Update) (string, string) {
	m := u.Message
	if m.IsCommand() {
		return usageMessage, "command"
	}

	out, err := b.lookup.Execute(ctx, &unitlookup.Input{
		Text:      m.Text,
		RequestID: fmt.Sprintf("tg-%d", u.UpdateID),
	})
	if err != nil {
		b.logger.WithError(err).Error("lookup failed", map[string]interface{}{
			"text": m.Text,
		})
		if apperrors.IsCode(err, apperrors.ErrCodeStoreReadFailed) {
			return storeUnavailableMessage, "store_unreadable"
		}
		return storeUnavailableMessage, "store_error"
	}

	b.logger.Info("message handled", map[string]interface{}{
		"chatId": m.Chat.ID,
		"text":   m.Text,
		"kind":   out.Query.Kind,
		"status": out.Status,
	})

	switch out.Status {
	case unitlookup.StatusFound:
		return formatSummary(out.Summary, b.layout), string(out.Status)
	case unitlookup.StatusNotFound:
		return notFoundMessage(out.Query), string(out.Status)
	default:
		return invalidMessage, string(out.Status)
	}
}
