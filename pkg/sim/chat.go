package sim

import "sort"

// ChatKind identifies conversation scope.
type ChatKind string

const (
	// ChatKindPrivate is a direct conversation between one user and the bot.
	ChatKindPrivate ChatKind = "private"
	// ChatKindGroup is a basic group conversation.
	ChatKindGroup ChatKind = "group"
	// ChatKindSupergroup is a large group conversation.
	ChatKindSupergroup ChatKind = "supergroup"
	// ChatKindChannel is a broadcast conversation.
	ChatKindChannel ChatKind = "channel"
	// ChatKindSender marks inline queries issued outside any chat context.
	ChatKindSender ChatKind = "sender"
)

// Chat is one simulated conversation: identity, a member set, and an ordered
// append-only message history.
type Chat struct {
	// ID is the simulation-scoped chat identifier.
	ID int64
	// Kind describes the conversation scope.
	Kind ChatKind
	// Title is an optional display label.
	Title string

	members map[int64]*User
	history []*Message
}

// NewChat constructs a private chat with the next allocated chat id.
func NewChat(seq *Sequence) *Chat {
	return newChat(seq.NextChatID(), ChatKindPrivate)
}

func newChat(id int64, kind ChatKind) *Chat {
	return &Chat{
		ID:      id,
		Kind:    kind,
		members: make(map[int64]*User),
	}
}

// WithKind sets the conversation kind and returns the chat for chaining.
func (c *Chat) WithKind(kind ChatKind) *Chat {
	c.Kind = kind

	return c
}

// WithTitle sets the display label and returns the chat for chaining.
func (c *Chat) WithTitle(title string) *Chat {
	c.Title = title

	return c
}

// HasMember reports whether the user is currently a member.
func (c *Chat) HasMember(user *User) bool {
	if user == nil {
		return false
	}
	_, ok := c.members[user.ID]

	return ok
}

// MemberCount returns the current member set size.
func (c *Chat) MemberCount() int {
	return len(c.members)
}

// Members returns the current members ordered by ascending user id.
func (c *Chat) Members() []*User {
	out := make([]*User, 0, len(c.members))
	for _, member := range c.members {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// History returns the chronological message history.
func (c *Chat) History() []*Message {
	return append([]*Message(nil), c.history...)
}

// LastMessage returns the most recent message, or nil for an empty chat.
func (c *Chat) LastMessage() *Message {
	if len(c.history) == 0 {
		return nil
	}

	return c.history[len(c.history)-1]
}

func (c *Chat) addMember(user *User) {
	if user == nil {
		return
	}
	if c.members == nil {
		c.members = make(map[int64]*User)
	}
	c.members[user.ID] = user
}

func (c *Chat) removeMember(user *User) {
	if user == nil {
		return
	}
	delete(c.members, user.ID)
}

func (c *Chat) appendHistory(message *Message) {
	c.history = append(c.history, message)
}
