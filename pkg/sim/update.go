package sim

import (
	"fmt"
	"time"
)

// UpdateKind identifies which payload branch of an update is populated.
type UpdateKind string

const (
	// UpdateKindMessage identifies new-message updates.
	UpdateKindMessage UpdateKind = "message"
	// UpdateKindChatMember identifies membership-transition updates.
	UpdateKindChatMember UpdateKind = "chat_member"
	// UpdateKindCallbackQuery identifies inline-button click updates.
	UpdateKindCallbackQuery UpdateKind = "callback_query"
	// UpdateKindInlineQuery identifies inline query updates.
	UpdateKindInlineQuery UpdateKind = "inline_query"
	// UpdateKindChosenInlineResult identifies chosen-inline-result updates.
	UpdateKindChosenInlineResult UpdateKind = "chosen_inline_result"
	// UpdateKindMessageReaction identifies reaction-transition updates.
	UpdateKindMessageReaction UpdateKind = "message_reaction"
	// UpdateKindNone marks an update with no populated payload branch.
	UpdateKindNone UpdateKind = ""
)

// MemberStatus identifies a user's membership state within a chat.
type MemberStatus string

const (
	// MemberStatusMember indicates current membership.
	MemberStatusMember MemberStatus = "member"
	// MemberStatusLeft indicates the user is not a member.
	MemberStatusLeft MemberStatus = "left"
)

// ChatMemberUpdate captures one membership transition within a chat.
type ChatMemberUpdate struct {
	// Chat is the conversation whose member set changed.
	Chat *Chat
	// Actor is the user that triggered the transition.
	Actor *User
	// Member is the user whose membership changed.
	Member *User
	// OldStatus is the membership state before the transition.
	OldStatus MemberStatus
	// NewStatus is the membership state after the transition.
	NewStatus MemberStatus
	// Date is the transition timestamp.
	Date time.Time
}

// Update is the tagged-union envelope handed to the bot dispatcher: exactly
// one payload branch is populated, plus a global update id stamped at
// emission time.
type Update struct {
	// ID is the global update sequence number. Assigned by the environment;
	// any caller-supplied value is overwritten.
	ID int64
	// Message carries new-message payloads.
	Message *Message
	// ChatMember carries membership-transition payloads.
	ChatMember *ChatMemberUpdate
	// CallbackQuery carries inline-button click payloads.
	CallbackQuery *CallbackQuery
	// InlineQuery carries inline query payloads.
	InlineQuery *InlineQuery
	// ChosenInlineResult carries chosen-inline-result payloads.
	ChosenInlineResult *ChosenInlineResult
	// MessageReaction carries reaction-transition payloads.
	MessageReaction *MessageReaction
}

// Kind reports which payload branch is populated, or UpdateKindNone.
func (u *Update) Kind() UpdateKind {
	switch {
	case u == nil:
		return UpdateKindNone
	case u.Message != nil:
		return UpdateKindMessage
	case u.ChatMember != nil:
		return UpdateKindChatMember
	case u.CallbackQuery != nil:
		return UpdateKindCallbackQuery
	case u.InlineQuery != nil:
		return UpdateKindInlineQuery
	case u.ChosenInlineResult != nil:
		return UpdateKindChosenInlineResult
	case u.MessageReaction != nil:
		return UpdateKindMessageReaction
	default:
		return UpdateKindNone
	}
}

// Validate checks that exactly one payload branch is populated.
func (u *Update) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: nil update", ErrInvalidUpdate)
	}

	populated := 0
	if u.Message != nil {
		populated++
	}
	if u.ChatMember != nil {
		populated++
	}
	if u.CallbackQuery != nil {
		populated++
	}
	if u.InlineQuery != nil {
		populated++
	}
	if u.ChosenInlineResult != nil {
		populated++
	}
	if u.MessageReaction != nil {
		populated++
	}

	switch populated {
	case 0:
		return fmt.Errorf("%w: no payload branch populated", ErrInvalidUpdate)
	case 1:
		return nil
	default:
		return fmt.Errorf("%w: %d payload branches populated", ErrInvalidUpdate, populated)
	}
}
