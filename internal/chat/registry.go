package chat

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Channel types the bot posts to.
const (
	ChannelAlarm  = "alarm"
	ChannelNotice = "notice"
	ChannelReport = "report"
)

// channelKeywords maps a substring of a channel name to the channel type it
// registers as, in matching order.
var channelKeywords = []struct {
	keyword     string
	channelType string
}{
	{"alarm", ChannelAlarm},
	{"notice", ChannelNotice},
	{"report", ChannelReport},
}

// ChannelInfo describes a text channel seen during discovery.
type ChannelInfo struct {
	GuildID   string
	GuildName string
	ID        string
	Name      string
	CanSend   bool
}

// Registry maps guild id -> channel type -> channel id. Discovery is the only
// writer.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[string]string
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{channels: make(map[string]map[string]string), logger: logger}
}

// Discover registers, per guild, the first sendable channel whose name
// contains each keyword. Types already registered for a guild are kept.
func (r *Registry) Discover(channels []ChannelInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range channels {
		if _, ok := r.channels[ch.GuildID]; !ok {
			r.channels[ch.GuildID] = make(map[string]string)
		}
		if !ch.CanSend {
			continue
		}
		name := strings.ToLower(ch.Name)
		for _, kw := range channelKeywords {
			if !strings.Contains(name, kw.keyword) {
				continue
			}
			if _, taken := r.channels[ch.GuildID][kw.channelType]; taken {
				continue
			}
			r.channels[ch.GuildID][kw.channelType] = ch.ID
			r.logger.Info("channel registered",
				"guild", ch.GuildName, "channel", ch.Name, "type", kw.channelType)
		}
	}
}

// Channels returns the channel of the given type in every guild that has one,
// ordered by guild id.
func (r *Registry) Channels(channelType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guilds := make([]string, 0, len(r.channels))
	for g := range r.channels {
		guilds = append(guilds, g)
	}
	sort.Strings(guilds)

	ids := []string{}
	for _, g := range guilds {
		if id, ok := r.channels[g][channelType]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Count is the number of registered channels across all guilds.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, types := range r.channels {
		n += len(types)
	}
	return n
}

// HasGuild reports whether discovery already ran for the guild.
func (r *Registry) HasGuild(guildID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.channels[guildID]
	return ok
}
