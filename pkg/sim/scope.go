package sim

import "context"

// In scopes the user's actions to one chat, removing the chat argument from
// repeated calls within a scenario.
func (u *User) In(chat *Chat) *ChatScope {
	return &ChatScope{user: u, chat: chat}
}

// On scopes the user's actions to one message.
func (u *User) On(message *Message) *MessageScope {
	return &MessageScope{user: u, message: message}
}

// ChatScope binds a user to one chat for chained actions.
type ChatScope struct {
	user *User
	chat *Chat
}

// Chat returns the bound chat.
func (s *ChatScope) Chat() *Chat {
	return s.chat
}

// SendMessage sends text in the bound chat.
func (s *ChatScope) SendMessage(ctx context.Context, text string) (*Message, error) {
	return s.user.SendMessageTo(ctx, s.chat, text)
}

// Join adds the user to the bound chat.
func (s *ChatScope) Join(ctx context.Context) error {
	return s.user.Join(ctx, s.chat)
}

// Leave removes the user from the bound chat.
func (s *ChatScope) Leave(ctx context.Context) error {
	return s.user.Leave(ctx, s.chat)
}

// SendInlineQuery emits an inline query carrying the bound chat's kind hint.
func (s *ChatScope) SendInlineQuery(ctx context.Context, query string) (*InlineQuery, error) {
	return s.user.SendInlineQuery(ctx, query, &InlineQueryOptions{Chat: s.chat})
}

// MessageScope binds a user to one message for chained actions.
type MessageScope struct {
	user    *User
	message *Message
}

// Message returns the bound message.
func (s *MessageScope) Message() *Message {
	return s.message
}

// Click emits an inline-button click originating from the bound message.
func (s *MessageScope) Click(ctx context.Context, data string) (*CallbackQuery, error) {
	return s.user.ClickOn(ctx, s.message, data)
}

// React replaces the user's reaction set on the bound message.
func (s *MessageScope) React(ctx context.Context, emoji ...string) error {
	return s.user.React(ctx, s.message, emoji...)
}

// Reply sends text in the bound message's chat linked as a reply.
func (s *MessageScope) Reply(ctx context.Context, text string) (*Message, error) {
	return s.user.Reply(ctx, s.message, text)
}
