package chat

import (
	"fmt"
	"strings"
)

const CommandPrefix = "!"

// Command is a prefix command answered with a single message.
type Command struct {
	Name    string
	Aliases []string
	Help    string
	Handle  func(args []string) Message
}

// Commands is the dispatch table from command name or alias to command.
type Commands struct {
	byName map[string]*Command
	order  []*Command
}

func NewCommands() *Commands {
	return &Commands{byName: make(map[string]*Command)}
}

func (c *Commands) Register(cmd Command) {
	stored := &cmd
	c.order = append(c.order, stored)
	c.byName[cmd.Name] = stored
	for _, a := range cmd.Aliases {
		c.byName[a] = stored
	}
}

// Dispatch answers content if it is a known command.
func (c *Commands) Dispatch(content string) (Message, bool) {
	if !strings.HasPrefix(content, CommandPrefix) {
		return Message{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, CommandPrefix))
	if len(fields) == 0 {
		return Message{}, false
	}
	cmd, ok := c.byName[fields[0]]
	if !ok {
		return Message{}, false
	}
	return cmd.Handle(fields[1:]), true
}

// Names lists the registered command names in registration order.
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, cmd := range c.order {
		names = append(names, cmd.Name)
	}
	return names
}

// LinkCommands are the deep links answered by the link commands.
type LinkCommands struct {
	Notice   string
	Service  string
	Feedback string
}

const colorInfo = 0x00BFFF

func linkReply(title, description, url string) func([]string) Message {
	return func([]string) Message {
		return Message{Title: title, Description: description, URL: url, Color: colorInfo}
	}
}

// DefaultCommands builds the bot's command table.
func DefaultCommands(links LinkCommands) *Commands {
	c := NewCommands()
	c.Register(Command{
		Name: "ping",
		Help: "Checks that the bot is alive.",
		Handle: func([]string) Message {
			return Message{Description: "Pong!"}
		},
	})
	c.Register(Command{
		Name:    "notice",
		Aliases: []string{"공지"},
		Help:    "Links the latest notice board.",
		Handle:  linkReply("📢 Latest notices", "Check the latest notices!", links.Notice),
	})
	c.Register(Command{
		Name:    "service",
		Aliases: []string{"서비스"},
		Help:    "Links the running service.",
		Handle:  linkReply("Open the service", "Go to the service!", links.Service),
	})
	c.Register(Command{
		Name:    "feedback",
		Aliases: []string{"피드백"},
		Help:    "Links the feedback sheet.",
		Handle:  linkReply("Feedback", "Check the collected feedback!", links.Feedback),
	})
	c.Register(Command{
		Name:    "help",
		Aliases: []string{"도움말"},
		Help:    "Shows this message.",
		Handle: func([]string) Message {
			return c.helpMessage()
		},
	})
	return c
}

func (c *Commands) helpMessage() Message {
	msg := Message{
		Title:       "🤖 Available commands",
		Description: "Commands this bot answers:",
		Color:       colorInfo,
	}
	for _, cmd := range c.order {
		name := fmt.Sprintf("`%s%s`", CommandPrefix, cmd.Name)
		for _, a := range cmd.Aliases {
			name += fmt.Sprintf(" / `%s%s`", CommandPrefix, a)
		}
		msg.Fields = append(msg.Fields, Field{Name: name, Value: cmd.Help})
	}
	return msg
}
