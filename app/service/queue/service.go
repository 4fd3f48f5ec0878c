package queue

import (
	"log/slog"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	queue chan Inbound
}

// Inbound is one received chat message. OwnerID drives workflow sessions,
// ChatID keys the message history.
type Inbound struct {
	OwnerID int64
	ChatID  int64
	Text    string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Inbound, bufferSize),
	}, nil
}

func (s *Service) Add(msg Inbound) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("message dropped, queue already closed")
		}
	}()

	select {
	case s.queue <- msg:
	default:
		slog.Warn("message queue is full")
	}
}

func (s *Service) Channel() <-chan Inbound {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
