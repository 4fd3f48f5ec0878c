package server

import (
	"context"
	"log/slog"
	"time"
	"warungbot/app/config"
	"warungbot/app/service/queue"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const shutdownTimeout = 5 * time.Second

// Service exposes the webhook inbound mode: Telegram posts updates here
// instead of the bot long-polling for them. Also serves a health endpoint.
type Service struct {
	cfg      *config.Config
	queueSvc *queue.Service
	app      *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		queueSvc: do.MustInvoke[*queue.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s.app.Get("/", s.handleHealth)
	s.app.Post("/webhook", s.handleWebhook)

	return s, nil
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "All is well",
		"status":  "ok",
	})
}

func (s *Service) handleWebhook(c *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := c.BodyParser(&update); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid update payload")
	}

	if msg := update.Message; msg != nil && msg.From != nil && msg.Text != "" {
		s.queueSvc.Add(queue.Inbound{
			OwnerID: msg.From.ID,
			ChatID:  msg.Chat.ID,
			Text:    msg.Text,
		})
	}

	// Always acknowledge so Telegram stops redelivering.
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.app.Listen(s.cfg.Telegram.ListenAddr)
	}()

	slog.Info("Webhook server started", "addr", s.cfg.Telegram.ListenAddr)

	select {
	case err := <-errCh:
		return oops.Errorf("webhook server failed: %w", err)
	case <-ctx.Done():
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}
