package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Bot is the Discord connection: it discovers channels as guilds arrive,
// answers prefix commands and sends messages.
type Bot struct {
	session  *discordgo.Session
	registry *Registry
	commands *Commands
	logger   *slog.Logger
	ready    chan struct{}
}

var _ Sender = (*Bot)(nil)

func NewBot(token string, registry *Registry, commands *Commands, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		session:  session,
		registry: registry,
		commands: commands,
		logger:   logger,
		ready:    make(chan struct{}),
	}
	session.AddHandlerOnce(b.onReady)
	session.AddHandler(b.onGuildCreate)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// Open connects to the gateway and waits for the ready event.
func (b *Bot) Open(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		_ = b.session.Close()
		return ctx.Err()
	}
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("bot logged in", "user", r.User.Username, "guilds", len(r.Guilds))
	close(b.ready)
}

// onGuildCreate runs discovery once per guild, when the guild first becomes
// available.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Unavailable || b.registry.HasGuild(g.ID) {
		return
	}

	infos := make([]ChannelInfo, 0, len(g.Channels))
	for _, ch := range g.Channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		perms, err := s.State.UserChannelPermissions(s.State.User.ID, ch.ID)
		if err != nil {
			b.logger.Warn("permission lookup failed", "channel", ch.Name, "error", err)
		}
		infos = append(infos, ChannelInfo{
			GuildID:   g.ID,
			GuildName: g.Name,
			ID:        ch.ID,
			Name:      ch.Name,
			CanSend:   err == nil && perms&discordgo.PermissionSendMessages != 0,
		})
	}
	if len(infos) == 0 {
		infos = append(infos, ChannelInfo{GuildID: g.ID, GuildName: g.Name})
	}
	b.registry.Discover(infos)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	reply, ok := b.commands.Dispatch(m.Content)
	if !ok {
		return
	}
	if err := b.SendMessage(context.Background(), m.ChannelID, reply); err != nil {
		b.logger.Error("command reply failed", "command", m.Content, "error", err)
	}
}

// SendMessage posts msg as an embed, preceded by its mention.
func (b *Bot) SendMessage(ctx context.Context, channelID string, msg Message) error {
	_, err := b.session.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	return err
}

func toMessageSend(msg Message) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		URL:         msg.URL,
		Color:       msg.Color,
	}
	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}

	send := &discordgo.MessageSend{Content: msg.Content()}
	if msg.Title == "" && len(msg.Fields) == 0 {
		// Plain replies such as the ping answer go out as text.
		send.Content = joinContent(send.Content, msg.Description)
		return send
	}
	send.Embeds = []*discordgo.MessageEmbed{embed}
	return send
}

func joinContent(mention, text string) string {
	if mention == "" {
		return text
	}
	return mention + " " + text
}
