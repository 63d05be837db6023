package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRegistryDiscover(t *testing.T) {
	r := NewRegistry(quiet)
	r.Discover([]ChannelInfo{
		{GuildID: "g1", ID: "c0", Name: "📢-alarm-readonly", CanSend: false},
		{GuildID: "g1", ID: "c1", Name: "Team-ALARM", CanSend: true},
		{GuildID: "g1", ID: "c2", Name: "alarm-2", CanSend: true},
		{GuildID: "g1", ID: "c3", Name: "weekly-report", CanSend: true},
		{GuildID: "g2", ID: "c4", Name: "general", CanSend: true},
		{GuildID: "g3", ID: "c5", Name: "notice-alarm", CanSend: true},
	})

	assert.Equal(t, []string{"c1", "c5"}, r.Channels(ChannelAlarm))
	assert.Equal(t, []string{"c3"}, r.Channels(ChannelReport))
	assert.Equal(t, []string{"c5"}, r.Channels(ChannelNotice))
	assert.Equal(t, 4, r.Count())
	assert.True(t, r.HasGuild("g2"))
	assert.False(t, r.HasGuild("g4"))
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	fail map[string]bool
}

func (s *recordingSender) SendMessage(_ context.Context, channelID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, channelID)
	if s.fail[channelID] {
		return errors.New("missing access")
	}
	return nil
}

func TestBroadcastContinuesPastFailures(t *testing.T) {
	r := NewRegistry(quiet)
	r.Discover([]ChannelInfo{
		{GuildID: "g1", ID: "a1", Name: "alarm", CanSend: true},
		{GuildID: "g2", ID: "a2", Name: "alarm", CanSend: true},
		{GuildID: "g3", ID: "a3", Name: "alarm", CanSend: true},
	})
	sender := &recordingSender{fail: map[string]bool{"a2": true}}
	n := NewNotifier(r, sender, quiet)
	n.SetLimiter(rate.NewLimiter(rate.Inf, 1))

	err := n.Broadcast(context.Background(), ChannelAlarm, Message{Title: "hi", Mention: MentionEveryone})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a2")
	assert.Equal(t, []string{"a1", "a2", "a3"}, sender.sent)
}

func TestBroadcastWithoutChannels(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(NewRegistry(quiet), sender, quiet)

	assert.NoError(t, n.Broadcast(context.Background(), ChannelAlarm, Message{}))
	assert.Empty(t, sender.sent)
}

func TestMessageContent(t *testing.T) {
	assert.Equal(t, "@everyone", Message{Mention: MentionEveryone}.Content())
	assert.Equal(t, "<@1234>", Message{Mention: "1234"}.Content())
	assert.Equal(t, "", Message{}.Content())
}

func TestToMessageSend(t *testing.T) {
	send := toMessageSend(Message{Title: "📢 Daily Scrum", Description: "write it", Color: 0xFF, Mention: "42"})
	require.Len(t, send.Embeds, 1)
	assert.Equal(t, "<@42>", send.Content)
	assert.Equal(t, "📢 Daily Scrum", send.Embeds[0].Title)
	assert.Equal(t, 0xFF, send.Embeds[0].Color)

	plain := toMessageSend(Message{Description: "Pong!"})
	assert.Empty(t, plain.Embeds)
	assert.Equal(t, "Pong!", plain.Content)
}

func TestCommandsDispatch(t *testing.T) {
	c := DefaultCommands(LinkCommands{Notice: "https://notion.so/n", Service: "https://svc", Feedback: "https://sheet"})

	reply, ok := c.Dispatch("!ping")
	require.True(t, ok)
	assert.Equal(t, "Pong!", reply.Description)

	reply, ok = c.Dispatch("!공지")
	require.True(t, ok)
	assert.Equal(t, "https://notion.so/n", reply.URL)

	reply, ok = c.Dispatch("!feedback now")
	require.True(t, ok)
	assert.Equal(t, "https://sheet", reply.URL)

	reply, ok = c.Dispatch("!도움말")
	require.True(t, ok)
	assert.Len(t, reply.Fields, 5)
	assert.Contains(t, reply.Fields[4].Name, "`!help`")

	_, ok = c.Dispatch("ping")
	assert.False(t, ok)
	_, ok = c.Dispatch("!")
	assert.False(t, ok)
	_, ok = c.Dispatch("!unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"ping", "notice", "service", "feedback", "help"}, c.Names())
}
