package sim

import "time"

// Message is one simulated chat message. A message id is unique within its
// chat and is assigned lazily from the chat's sequence at the moment a chat
// is first bound, so a message built before its destination is known never
// consumes a sequence slot of the wrong chat.
type Message struct {
	// ID is the per-chat message identifier. Zero until a chat is bound.
	ID int64
	// Date is the creation timestamp.
	Date time.Time
	// From is the optional sender.
	From *User
	// Chat is the optional owning conversation.
	Chat *Chat
	// Text is the optional message body.
	Text string
	// ReplyTo optionally links this message as a reply.
	ReplyTo *Message
	// NewChatMembers carries the joined members of a join service message.
	NewChatMembers []*User
	// LeftChatMember carries the departed member of a leave service message.
	LeftChatMember *User

	seq       *Sequence
	reactions map[int64][]string
}

// NewMessage constructs a message stamped with the given creation time.
func NewMessage(seq *Sequence, at time.Time) *Message {
	return &Message{Date: at, seq: seq}
}

// WithText sets the message body and returns the message for chaining.
func (m *Message) WithText(text string) *Message {
	m.Text = text

	return m
}

// WithDate sets the creation timestamp and returns the message for chaining.
func (m *Message) WithDate(at time.Time) *Message {
	m.Date = at

	return m
}

// WithChat binds the owning chat. The first binding assigns the message id
// from that chat's running sequence.
func (m *Message) WithChat(chat *Chat) *Message {
	if chat == nil {
		return m
	}
	m.Chat = chat
	if m.ID == 0 && m.seq != nil {
		m.ID = m.seq.NextMessageID(chat.ID)
	}

	return m
}

// WithFrom sets the sender. When no chat is bound yet, the sender's private
// chat is attached.
func (m *Message) WithFrom(user *User) *Message {
	m.From = user
	if m.Chat == nil && user != nil {
		m.WithChat(user.PrivateChat())
	}

	return m
}

// WithReplyTo links this message as a reply and returns it for chaining.
func (m *Message) WithReplyTo(parent *Message) *Message {
	m.ReplyTo = parent

	return m
}

// HasReactions reports whether the user currently has reactions on this message.
func (m *Message) HasReactions(userID int64) bool {
	_, ok := m.reactions[userID]

	return ok
}

// ReactionsOf returns the user's current reaction emoji set, empty when absent.
func (m *Message) ReactionsOf(userID int64) []string {
	return append([]string(nil), m.reactions[userID]...)
}

// setReactions replaces the user's ledger entry wholesale; an empty set
// removes the entry entirely.
func (m *Message) setReactions(userID int64, emoji []string) {
	if len(emoji) == 0 {
		delete(m.reactions, userID)

		return
	}
	if m.reactions == nil {
		m.reactions = make(map[int64][]string)
	}
	m.reactions[userID] = append([]string(nil), emoji...)
}
