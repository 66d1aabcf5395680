package sim

import "context"

// InlineQueryOptions customizes SendInlineQuery.
type InlineQueryOptions struct {
	// Chat supplies the conversation the query is issued from; its kind
	// becomes the query's kind hint.
	Chat *Chat
	// Offset is the pagination offset requested by the client.
	Offset string
}

// ChosenInlineResultOptions customizes ChooseInlineResult.
type ChosenInlineResultOptions struct {
	// InlineMessageID references the message the chosen result produced.
	InlineMessageID string
}

// SendMessage sends text in the user's private chat.
func (u *User) SendMessage(ctx context.Context, text string) (*Message, error) {
	return u.SendMessageTo(ctx, u.privateChat, text)
}

// SendMessageTo sends text in the given chat. The message is appended to the
// chat history before emission, so a dispatcher error still leaves the
// message recorded; the built message is returned alongside the error.
func (u *User) SendMessageTo(ctx context.Context, chat *Chat, text string) (*Message, error) {
	env, err := u.attached()
	if err != nil {
		return nil, err
	}
	if chat == nil {
		chat = u.privateChat
	}

	message := env.NewMessage().WithChat(chat).WithFrom(u).WithText(text)
	chat.appendHistory(message)

	return message, env.EmitMessage(ctx, message)
}

// Reply sends text in the parent's chat linked as a reply to it.
func (u *User) Reply(ctx context.Context, parent *Message, text string) (*Message, error) {
	env, err := u.attached()
	if err != nil {
		return nil, err
	}

	chat := u.privateChat
	if parent != nil && parent.Chat != nil {
		chat = parent.Chat
	}

	message := env.NewMessage().WithChat(chat).WithFrom(u).WithText(text).WithReplyTo(parent)
	chat.appendHistory(message)

	return message, env.EmitMessage(ctx, message)
}

// Join adds the user to the chat's member set, emits the membership
// transition, then emits the matching join service message. The service
// message is recorded in the chat history regardless of dispatcher outcome.
func (u *User) Join(ctx context.Context, chat *Chat) error {
	env, err := u.attached()
	if err != nil {
		return err
	}
	if chat == nil {
		return nil
	}

	oldStatus := MemberStatusLeft
	if chat.HasMember(u) {
		oldStatus = MemberStatusMember
	}
	chat.addMember(u)

	if err := env.EmitUpdate(ctx, &Update{ChatMember: &ChatMemberUpdate{
		Chat:      chat,
		Actor:     u,
		Member:    u,
		OldStatus: oldStatus,
		NewStatus: MemberStatusMember,
		Date:      env.now(),
	}}); err != nil {
		return err
	}

	service := env.NewMessage().WithChat(chat).WithFrom(u)
	service.NewChatMembers = []*User{u}
	chat.appendHistory(service)

	return env.EmitMessage(ctx, service)
}

// Leave removes the user from the chat's member set, emits the membership
// transition, then emits the matching leave service message.
func (u *User) Leave(ctx context.Context, chat *Chat) error {
	env, err := u.attached()
	if err != nil {
		return err
	}
	if chat == nil {
		return nil
	}

	oldStatus := MemberStatusLeft
	if chat.HasMember(u) {
		oldStatus = MemberStatusMember
	}
	chat.removeMember(u)

	if err := env.EmitUpdate(ctx, &Update{ChatMember: &ChatMemberUpdate{
		Chat:      chat,
		Actor:     u,
		Member:    u,
		OldStatus: oldStatus,
		NewStatus: MemberStatusLeft,
		Date:      env.now(),
	}}); err != nil {
		return err
	}

	service := env.NewMessage().WithChat(chat).WithFrom(u)
	service.LeftChatMember = u
	chat.appendHistory(service)

	return env.EmitMessage(ctx, service)
}

// Click emits an inline-button click with no originating message.
func (u *User) Click(ctx context.Context, data string) (*CallbackQuery, error) {
	return u.ClickOn(ctx, nil, data)
}

// ClickOn emits an inline-button click originating from the given message.
func (u *User) ClickOn(ctx context.Context, message *Message, data string) (*CallbackQuery, error) {
	env, err := u.attached()
	if err != nil {
		return nil, err
	}

	query := env.NewCallbackQuery(u).WithData(data).WithMessage(message)

	return query, env.EmitUpdate(ctx, &Update{CallbackQuery: query})
}

// React replaces the user's reaction set on the message wholesale. No emoji
// clears the user's reactions.
func (u *User) React(ctx context.Context, message *Message, emoji ...string) error {
	return u.ReactWith(ctx, NewReactionUpdate(message, u).WithNew(emoji...))
}

// ReactWith emits a prepared reaction transition. The old set derives from
// the ledger unless explicitly overridden, a zero date is stamped from the
// environment clock, and the ledger is written after emission regardless of
// dispatcher outcome so the declared new state always takes effect.
func (u *User) ReactWith(ctx context.Context, reaction *MessageReaction) error {
	env, err := u.attached()
	if err != nil {
		return err
	}
	if reaction == nil {
		return nil
	}

	if reaction.User == nil {
		reaction.User = u
	}
	if !reaction.oldExplicit && reaction.message != nil {
		reaction.Old = reaction.message.ReactionsOf(reaction.User.ID)
	}
	if reaction.Date.IsZero() {
		reaction.Date = env.now()
	}

	emitErr := env.EmitUpdate(ctx, &Update{MessageReaction: reaction})

	if reaction.message != nil {
		reaction.message.setReactions(reaction.User.ID, reaction.New)
	}

	return emitErr
}

// SendInlineQuery emits an inline query with the given text. Options may
// bind a conversation context and a pagination offset.
func (u *User) SendInlineQuery(ctx context.Context, query string, options *InlineQueryOptions) (*InlineQuery, error) {
	env, err := u.attached()
	if err != nil {
		return nil, err
	}

	inline := env.NewInlineQuery(u).WithQuery(query)
	if options != nil {
		inline.Offset = options.Offset
		if options.Chat != nil {
			inline.ChatKind = options.Chat.Kind
		}
	}

	return inline, env.EmitUpdate(ctx, &Update{InlineQuery: inline})
}

// ChooseInlineResult emits that the user picked one result of an inline query.
func (u *User) ChooseInlineResult(ctx context.Context, resultID, query string, options *ChosenInlineResultOptions) (*ChosenInlineResult, error) {
	env, err := u.attached()
	if err != nil {
		return nil, err
	}

	chosen := &ChosenInlineResult{ResultID: resultID, From: u, Query: query}
	if options != nil {
		chosen.InlineMessageID = options.InlineMessageID
	}

	return chosen, env.EmitUpdate(ctx, &Update{ChosenInlineResult: chosen})
}
