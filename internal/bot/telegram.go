package bot

import (
	"encoding/json"
	"fmt"
	"net/http"

	"unit-lookup/internal/common/config"
	"unit-lookup/internal/common/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NewTelegramAPI authenticates the token (getMe) over the given client.
func NewTelegramAPI(cfg config.TelegramConfig, client tgbotapi.HTTPClient) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	api.Debug = cfg.Debug
	return api, nil
}

// StartPolling drops any registered webhook and starts long polling.
// Stop with api.StopReceivingUpdates.
func StartPolling(api *tgbotapi.BotAPI, timeoutSeconds int) (tgbotapi.UpdatesChannel, error) {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return nil, fmt.Errorf("delete webhook: %w", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSeconds
	return api.GetUpdatesChan(u), nil
}

// RegisterWebhook points Telegram at url.
func RegisterWebhook(api *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// WebhookReceiver queues updates posted by Telegram. When the queue is full
// it answers 503 and Telegram redelivers later.
type WebhookReceiver struct {
	updates chan tgbotapi.Update
	logger  logger.Logger
}

func NewWebhookReceiver(queueSize int, log logger.Logger) *WebhookReceiver {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &WebhookReceiver{
		updates: make(chan tgbotapi.Update, queueSize),
		logger:  log,
	}
}

func (w *WebhookReceiver) Updates() <-chan tgbotapi.Update {
	return w.updates
}

func (w *WebhookReceiver) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		w.logger.Warn("bad webhook payload", map[string]interface{}{"error": err})
		http.Error(rw, "bad update", http.StatusBadRequest)
		return
	}

	select {
	case w.updates <- update:
		rw.WriteHeader(http.StatusOK)
	default:
		w.logger.Warn("webhook queue full", map[string]interface{}{"updateId": update.UpdateID})
		http.Error(rw, "busy", http.StatusServiceUnavailable)
	}
}
