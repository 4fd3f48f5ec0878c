package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"warungbot/app/client/backend"
	"warungbot/app/client/kolosal"
	"warungbot/app/client/telegram"
	"warungbot/app/config"
	"warungbot/app/server"
	"warungbot/app/service/assistant"
	"warungbot/app/service/dialog"
	"warungbot/app/service/engine"
	"warungbot/app/service/history"
	"warungbot/app/service/queue"
	"warungbot/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, queue.New)
	do.Provide(di, backend.NewClient)
	do.Provide(di, kolosal.NewClient)
	do.Provide(di, telegram.NewClient)
	do.Provide(di, history.New)
	do.Provide(di, assistant.New)
	do.Provide(di, dialog.New)
	do.Provide(di, engine.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	do.MustInvoke[*history.Service](di).StartReaper(appCtx)

	switch cfg.Telegram.Mode {
	case "webhook":
		go func() {
			if err := do.MustInvoke[*server.Service](di).Run(appCtx); err != nil {
				slog.Error("Webhook server stopped", "error", err)
				cancel()
			}
		}()
	default:
		go do.MustInvoke[*telegram.Client](di).RunPolling(appCtx)
	}

	go do.MustInvoke[*engine.Service](di).Run(appCtx)

	<-appCtx.Done()
}
