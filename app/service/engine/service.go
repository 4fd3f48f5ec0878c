package engine

import (
	"context"
	"log/slog"
	"time"
	"warungbot/app/service/dialog"
	"warungbot/app/service/queue"

	"github.com/samber/do"
)

// Dialog handles one inbound message end to end.
type Dialog interface {
	Handle(ctx context.Context, ownerID, chatID int64, text string)
}

// Service drains the inbound queue and feeds the dialogue engine. Each
// message is dispatched on its own goroutine so one owner's slow backend or
// LLM call never delays other owners; the dialogue service's per-owner locks
// serialize messages of the same owner.
type Service struct {
	dialogSvc Dialog
	queueSvc  *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		dialogSvc: do.MustInvoke[*dialog.Service](di),
		queueSvc:  do.MustInvoke[*queue.Service](di),
	}, nil
}

func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}

			go s.handle(ctx, msg)
		}
	}
}

func (s *Service) handle(ctx context.Context, msg queue.Inbound) {
	start := time.Now()
	s.dialogSvc.Handle(ctx, msg.OwnerID, msg.ChatID, msg.Text)

	slog.Info("Processed message",
		"owner_id", msg.OwnerID,
		"chat_id", msg.ChatID,
		"duration", time.Since(start))
}
