package dialog

import (
	"context"
	"log/slog"
	"strings"
	"warungbot/app/client/backend"
	"warungbot/app/client/telegram"
	"warungbot/app/config"
	"warungbot/app/service/assistant"
	"warungbot/app/service/history"

	"github.com/samber/do"
)

const (
	cancelTrigger = "/cancel"

	cancelledText = "❌ Operasi dibatalkan."
	replacedText  = "⚠️ Operasi sebelumnya dibatalkan."
	apologyText   = "Maaf, saya sedang mengalami gangguan. Silakan coba lagi atau ketik /help untuk melihat panduan. 🙏"
)

// Backend is the slice of the platform API the dialogue flows need.
type Backend interface {
	AddCustomer(ctx context.Context, req backend.CreateCustomerRequest) (string, error)
	GetCustomer(ctx context.Context, id int64) (*backend.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req backend.UpdateCustomerRequest) (string, error)
	DeleteCustomer(ctx context.Context, id int64) error
	ListMerchants(ctx context.Context) ([]backend.Merchant, error)
	ListProducts(ctx context.Context, merchantID string) ([]backend.Product, error)
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.Order, error)
	ListOrders(ctx context.Context, customerID int64) ([]backend.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type Sender interface {
	Send(chatID int64, text string) error
}

type Assistant interface {
	Answer(ctx context.Context, chatID int64, text string) (string, error)
}

// Service is the dialogue engine: it routes every inbound message to the
// active workflow step, an entry trigger, a one-shot command or free-form
// chat, and owns the session registry.
type Service struct {
	cfg           *config.Config
	backendClient Backend
	sender        Sender
	assistantSvc  Assistant
	historySvc    *history.Service

	registry  *Registry
	byTrigger map[string]*Workflow
	byKind    map[Kind]*Workflow
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:           do.MustInvoke[*config.Config](di),
		backendClient: do.MustInvoke[*backend.Client](di),
		sender:        do.MustInvoke[*telegram.Client](di),
		assistantSvc:  do.MustInvoke[*assistant.Service](di),
		historySvc:    do.MustInvoke[*history.Service](di),
		registry:      NewRegistry(),
	}

	s.initWorkflows()

	return s, nil
}

func (s *Service) initWorkflows() {
	s.byTrigger = make(map[string]*Workflow)
	s.byKind = make(map[Kind]*Workflow)

	for _, wf := range s.newWorkflows() {
		s.byTrigger[wf.Trigger] = wf
		s.byKind[wf.Kind] = wf
	}
}

// Handle processes one inbound message end to end: it serializes per owner,
// records the message, runs the dialogue logic and delivers the replies.
func (s *Service) Handle(ctx context.Context, ownerID, chatID int64, text string) {
	s.registry.LockOwner(ownerID)
	defer s.registry.UnlockOwner(ownerID)

	s.historySvc.Append(chatID, ownerID, text)

	for _, reply := range s.dispatch(ctx, ownerID, chatID, text) {
		if err := s.sender.Send(chatID, reply); err != nil {
			slog.Error("Failed to send reply",
				"chat_id", chatID,
				"error", err)
		}

		s.historySvc.Append(chatID, history.BotSenderID, reply)
	}
}

func (s *Service) dispatch(ctx context.Context, ownerID, chatID int64, text string) []string {
	trimmed := strings.TrimSpace(text)

	if sess := s.registry.Get(ownerID); sess != nil {
		switch {
		case trimmed == cancelTrigger:
			s.registry.Clear(ownerID)
			return []string{cancelledText}

		case s.byTrigger[trimmed] != nil:
			// A new entry trigger replaces the in-progress workflow.
			s.registry.Clear(ownerID)
			return append([]string{replacedText}, s.start(ctx, s.byTrigger[trimmed], ownerID)...)

		case strings.HasPrefix(trimmed, "/"):
			return s.command(ctx, ownerID, trimmed)

		default:
			return s.step(ctx, sess, text)
		}
	}

	switch {
	case trimmed == cancelTrigger:
		return nil
	case s.byTrigger[trimmed] != nil:
		return s.start(ctx, s.byTrigger[trimmed], ownerID)
	case strings.HasPrefix(trimmed, "/"):
		return s.command(ctx, ownerID, trimmed)
	default:
		return s.freeChat(ctx, chatID, text)
	}
}

// start runs a workflow's entry handler. The session is only stored once the
// entry succeeds and actually waits for input.
func (s *Service) start(ctx context.Context, wf *Workflow, ownerID int64) []string {
	sess := &Session{OwnerID: ownerID, Kind: wf.Kind}

	res, err := wf.Start(ctx, sess)
	if err != nil {
		return []string{"❌ " + backend.UserMessage(err)}
	}

	if res.done {
		return res.replies
	}

	sess.Step = res.next
	s.registry.Put(sess)

	return res.replies
}

// step feeds the message to the handler for the session's current position.
// Backend failures terminate the workflow; validation retries keep it where
// it is.
func (s *Service) step(ctx context.Context, sess *Session, text string) []string {
	wf := s.byKind[sess.Kind]

	fn, ok := wf.Steps[sess.Step]
	if !ok {
		slog.Error("Session in unknown step",
			"owner_id", sess.OwnerID,
			"workflow", sess.Kind,
			"step", sess.Step)
		s.registry.Clear(sess.OwnerID)
		return []string{cancelledText}
	}

	res, err := fn(ctx, sess, text)
	if err != nil {
		s.registry.Clear(sess.OwnerID)
		return []string{"❌ " + backend.UserMessage(err)}
	}

	if res.done {
		s.registry.Clear(sess.OwnerID)
		return res.replies
	}

	if res.next != "" {
		sess.Step = res.next
	}

	return res.replies
}

func (s *Service) freeChat(ctx context.Context, chatID int64, text string) []string {
	answer, err := s.assistantSvc.Answer(ctx, chatID, text)
	if err != nil {
		slog.Error("Assistant reply failed",
			"chat_id", chatID,
			"error", err)
		return []string{apologyText}
	}

	return []string{answer}
}
