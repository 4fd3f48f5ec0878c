package telegram

import (
	"context"
	"log/slog"
	"strings"
	"warungbot/app/config"
	"warungbot/app/service/queue"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// Client receives updates from the Bot API and sends outbound texts.
type Client struct {
	cfg      *config.Config
	api      *tgbotapi.BotAPI
	queueSvc *queue.Service
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, oops.Errorf("failed to create bot api: %w", err)
	}

	return &Client{
		cfg:      cfg,
		api:      api,
		queueSvc: do.MustInvoke[*queue.Service](di),
	}, nil
}

// RunPolling long-polls updates into the queue until ctx is done.
func (c *Client) RunPolling(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.cfg.Telegram.PollTimeout

	updates := c.api.GetUpdatesChan(u)

	slog.Info("Telegram polling started", "username", c.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			c.enqueue(update)
		}
	}
}

func (c *Client) enqueue(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}

	c.queueSvc.Add(queue.Inbound{
		OwnerID: msg.From.ID,
		ChatID:  msg.Chat.ID,
		Text:    msg.Text,
	})
}

func (c *Client) Send(chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return oops.Errorf("failed to send message to chat %d: %w", chatID, err)
	}

	return nil
}
