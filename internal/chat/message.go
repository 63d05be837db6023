// Package chat delivers bot messages to Discord: channel discovery, broadcast
// to registered channels and prefix commands.
package chat

import (
	"context"
	"fmt"
)

// MentionEveryone as Message.Mention pings the whole channel.
const MentionEveryone = "@everyone"

// Message is a rich embed plus an optional mention.
type Message struct {
	Title       string
	Description string
	URL         string
	Color       int
	Mention     string
	Fields      []Field
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Content renders the mention that precedes the embed. An empty mention id
// renders as nothing and the embed goes out on its own.
func (m Message) Content() string {
	switch m.Mention {
	case "":
		return ""
	case MentionEveryone:
		return MentionEveryone
	default:
		return fmt.Sprintf("<@%s>", m.Mention)
	}
}

// Sender delivers one message to one channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID string, msg Message) error
}
