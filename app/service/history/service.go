package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"warungbot/app/config"

	"github.com/samber/do"
)

// Service keeps a bounded message log per chat room, used to ground free-form
// AI replies. Entries idle past the TTL are reaped in the background.
type Service struct {
	limit         int
	ttl           time.Duration
	sweepInterval time.Duration

	mu    sync.Mutex
	chats map[int64]*chatLog

	reaperOnce sync.Once
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		limit:         cfg.History.Limit,
		ttl:           time.Duration(cfg.History.TTLMinutes) * time.Minute,
		sweepInterval: time.Duration(cfg.History.SweepMinutes) * time.Minute,
		chats:         make(map[int64]*chatLog),
	}, nil
}

// Append records a message, trimming the oldest entries past the limit.
func (s *Service) Append(chatID, senderID int64, content string) {
	now := time.Now()

	msg := Message{
		SenderID:  senderID,
		Content:   content,
		Timestamp: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		chat = &chatLog{}
		s.chats[chatID] = chat
	}

	chat.messages = append(chat.messages, msg)
	if len(chat.messages) > s.limit {
		chat.messages = chat.messages[len(chat.messages)-s.limit:]
	}
	chat.lastActive = now
}

// History returns a snapshot of the chat's messages and refreshes its
// inactivity timer. Absent chats yield an empty slice.
func (s *Service) History(chatID int64) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil
	}

	chat.lastActive = time.Now()

	snapshot := make([]Message, len(chat.messages))
	copy(snapshot, chat.messages)

	return snapshot
}

func (s *Service) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chats, chatID)
}

// Format renders the chat's recent messages for prompt building.
func (s *Service) Format(chatID int64) string {
	messages := s.History(chatID)
	if len(messages) == 0 {
		return "Belum ada riwayat percakapan"
	}

	var builder strings.Builder

	for _, msg := range messages {
		sender := "Pelanggan"
		if msg.SenderID == BotSenderID {
			sender = "Bot"
		}

		builder.WriteString(fmt.Sprintf("%s - %s: %s\n", msg.Timestamp.Format("15:04:05"), sender, msg.Content))
	}

	return builder.String()
}

// StartReaper launches the background eviction loop. Safe to call more than
// once; only the first call has effect.
func (s *Service) StartReaper(ctx context.Context) {
	s.reaperOnce.Do(func() {
		go s.runReaper(ctx)

		slog.Info("History reaper started",
			"ttl", s.ttl,
			"sweep_interval", s.sweepInterval)
	})
}

func (s *Service) runReaper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(time.Now())
		}
	}
}

// sweepOnce evicts every chat idle past the TTL. A single failing sweep is
// logged and does not stop the loop.
func (s *Service) sweepOnce(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("History sweep panicked", "panic", r)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []int64
	for chatID, chat := range s.chats {
		if now.Sub(chat.lastActive) > s.ttl {
			expired = append(expired, chatID)
		}
	}

	for _, chatID := range expired {
		delete(s.chats, chatID)
	}

	if len(expired) > 0 {
		slog.Info("Reaped inactive chat histories",
			"evicted", len(expired),
			"remaining", len(s.chats))
	}
}
