package history

import "time"

// BotSenderID marks messages written by the automated side.
const BotSenderID int64 = 0

type Message struct {
	SenderID  int64
	Content   string
	Timestamp time.Time
}

type chatLog struct {
	messages   []Message
	lastActive time.Time
}
