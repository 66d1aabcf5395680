package sim

import (
	"slices"
	"time"
)

// MessageReaction captures one user's reaction transition on one message:
// the emoji set being removed and the set now in effect.
//
// The builder seeds New from the user's current ledger entry so Add and
// Remove express increments over the current state; Old is derived from the
// ledger at emission time unless WithOld supplies an explicit set.
type MessageReaction struct {
	// Chat is the conversation containing the target message.
	Chat *Chat
	// MessageID identifies the target message within the chat.
	MessageID int64
	// User is the reacting user.
	User *User
	// Date is the reaction timestamp. Stamped at emission when zero.
	Date time.Time
	// Old is the emoji set being replaced.
	Old []string
	// New is the emoji set now in effect. Empty clears the user's reactions.
	New []string

	message     *Message
	oldExplicit bool
}

// NewReactionUpdate builds a reaction transition for one user on one message,
// seeding the new emoji set from the user's current ledger entry.
func NewReactionUpdate(message *Message, user *User) *MessageReaction {
	reaction := &MessageReaction{User: user, message: message}
	if message != nil {
		reaction.Chat = message.Chat
		reaction.MessageID = message.ID
		if user != nil {
			reaction.New = message.ReactionsOf(user.ID)
		}
	}

	return reaction
}

// Add appends emoji to the new set, skipping ones already present.
func (r *MessageReaction) Add(emoji ...string) *MessageReaction {
	for _, e := range emoji {
		if !slices.Contains(r.New, e) {
			r.New = append(r.New, e)
		}
	}

	return r
}

// Remove deletes emoji from the new set.
func (r *MessageReaction) Remove(emoji ...string) *MessageReaction {
	for _, e := range emoji {
		if idx := slices.Index(r.New, e); idx >= 0 {
			r.New = slices.Delete(r.New, idx, idx+1)
		}
	}

	return r
}

// WithNew replaces the new emoji set wholesale.
func (r *MessageReaction) WithNew(emoji ...string) *MessageReaction {
	r.New = append([]string(nil), emoji...)

	return r
}

// WithOld overrides the derived old emoji set. An explicit override always
// wins over the ledger-derived value.
func (r *MessageReaction) WithOld(emoji ...string) *MessageReaction {
	r.Old = append([]string(nil), emoji...)
	r.oldExplicit = true

	return r
}
