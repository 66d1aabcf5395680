// Package gotdbridge converts simulation updates into gotd tg update classes,
// so bots written against a gotd-style update loop can be driven by a
// simulated environment without touching their handler code.
package gotdbridge

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"chatsim/pkg/sim"

	"github.com/gotd/td/tg"
)

// MapUpdate converts one simulation update into the closest gotd update
// class. The second return value reports whether a mapping exists; updates
// with no gotd counterpart return (nil, false, nil).
func MapUpdate(update *sim.Update) (tg.UpdateClass, bool, error) {
	if update == nil {
		return nil, false, fmt.Errorf("map update: nil update")
	}

	switch update.Kind() {
	case sim.UpdateKindMessage:
		return mapMessage(update.Message)
	case sim.UpdateKindChatMember:
		return mapChatMember(update.ChatMember)
	case sim.UpdateKindCallbackQuery:
		return mapCallbackQuery(update.CallbackQuery)
	case sim.UpdateKindInlineQuery:
		return mapInlineQuery(update.InlineQuery)
	case sim.UpdateKindChosenInlineResult:
		return mapChosenInlineResult(update.ChosenInlineResult)
	case sim.UpdateKindMessageReaction:
		return mapMessageReaction(update.MessageReaction)
	default:
		return nil, false, nil
	}
}

func mapMessage(message *sim.Message) (tg.UpdateClass, bool, error) {
	if message == nil {
		return nil, false, fmt.Errorf("map message: nil message")
	}

	peer := peerForChat(message.Chat)
	date := timeToInt(message.Date)

	var mapped tg.MessageClass
	switch {
	case len(message.NewChatMembers) > 0:
		userIDs := make([]int64, 0, len(message.NewChatMembers))
		for _, member := range message.NewChatMembers {
			if member != nil {
				userIDs = append(userIDs, member.ID)
			}
		}
		service := &tg.MessageService{
			ID:     int(message.ID),
			PeerID: peer,
			Date:   date,
			Action: &tg.MessageActionChatAddUser{Users: userIDs},
		}
		if message.From != nil {
			service.SetFromID(&tg.PeerUser{UserID: message.From.ID})
		}
		mapped = service
	case message.LeftChatMember != nil:
		service := &tg.MessageService{
			ID:     int(message.ID),
			PeerID: peer,
			Date:   date,
			Action: &tg.MessageActionChatDeleteUser{UserID: message.LeftChatMember.ID},
		}
		if message.From != nil {
			service.SetFromID(&tg.PeerUser{UserID: message.From.ID})
		}
		mapped = service
	default:
		plain := &tg.Message{
			ID:      int(message.ID),
			PeerID:  peer,
			Date:    date,
			Message: message.Text,
		}
		if message.From != nil {
			plain.SetFromID(&tg.PeerUser{UserID: message.From.ID})
		}
		if message.ReplyTo != nil {
			header := &tg.MessageReplyHeader{}
			header.SetReplyToMsgID(int(message.ReplyTo.ID))
			plain.SetReplyTo(header)
		}
		mapped = plain
	}

	if isChannelChat(message.Chat) {
		return &tg.UpdateNewChannelMessage{Message: mapped, Pts: 0, PtsCount: 1}, true, nil
	}

	return &tg.UpdateNewMessage{Message: mapped, Pts: 0, PtsCount: 1}, true, nil
}

func mapChatMember(transition *sim.ChatMemberUpdate) (tg.UpdateClass, bool, error) {
	if transition == nil {
		return nil, false, fmt.Errorf("map chat member: nil transition")
	}
	if transition.Chat == nil || transition.Member == nil {
		return nil, false, fmt.Errorf("map chat member: missing chat or member")
	}

	actorID := transition.Member.ID
	if transition.Actor != nil {
		actorID = transition.Actor.ID
	}
	date := timeToInt(transition.Date)

	if isChannelChat(transition.Chat) {
		update := &tg.UpdateChannelParticipant{
			ChannelID: transition.Chat.ID,
			Date:      date,
			ActorID:   actorID,
			UserID:    transition.Member.ID,
		}
		if transition.OldStatus == sim.MemberStatusMember {
			update.SetPrevParticipant(&tg.ChannelParticipant{
				UserID: transition.Member.ID,
				Date:   date,
			})
		}
		if transition.NewStatus == sim.MemberStatusMember {
			update.SetNewParticipant(&tg.ChannelParticipant{
				UserID: transition.Member.ID,
				Date:   date,
			})
		}

		return update, true, nil
	}

	update := &tg.UpdateChatParticipant{
		ChatID:  transition.Chat.ID,
		Date:    date,
		ActorID: actorID,
		UserID:  transition.Member.ID,
	}
	if transition.OldStatus == sim.MemberStatusMember {
		update.SetPrevParticipant(&tg.ChatParticipant{
			UserID:    transition.Member.ID,
			InviterID: actorID,
			Date:      date,
		})
	}
	if transition.NewStatus == sim.MemberStatusMember {
		update.SetNewParticipant(&tg.ChatParticipant{
			UserID:    transition.Member.ID,
			InviterID: actorID,
			Date:      date,
		})
	}

	return update, true, nil
}

func mapCallbackQuery(query *sim.CallbackQuery) (tg.UpdateClass, bool, error) {
	if query == nil {
		return nil, false, fmt.Errorf("map callback query: nil query")
	}
	if query.From == nil {
		return nil, false, fmt.Errorf("map callback query: missing user")
	}

	update := &tg.UpdateBotCallbackQuery{
		QueryID:      numericID(query.ID),
		UserID:       query.From.ID,
		ChatInstance: hashToken(query.ChatInstance),
	}
	if query.Message != nil {
		update.Peer = peerForChat(query.Message.Chat)
		update.MsgID = int(query.Message.ID)
	} else {
		update.Peer = &tg.PeerUser{UserID: query.From.ID}
	}
	if query.Data != "" {
		update.SetData([]byte(query.Data))
	}

	return update, true, nil
}

func mapInlineQuery(query *sim.InlineQuery) (tg.UpdateClass, bool, error) {
	if query == nil {
		return nil, false, fmt.Errorf("map inline query: nil query")
	}
	if query.From == nil {
		return nil, false, fmt.Errorf("map inline query: missing user")
	}

	update := &tg.UpdateBotInlineQuery{
		QueryID: numericID(query.ID),
		UserID:  query.From.ID,
		Query:   query.Query,
		Offset:  query.Offset,
	}
	update.SetPeerType(peerTypeForKind(query.ChatKind))

	return update, true, nil
}

func mapChosenInlineResult(chosen *sim.ChosenInlineResult) (tg.UpdateClass, bool, error) {
	if chosen == nil {
		return nil, false, fmt.Errorf("map chosen inline result: nil result")
	}
	if chosen.From == nil {
		return nil, false, fmt.Errorf("map chosen inline result: missing user")
	}

	return &tg.UpdateBotInlineSend{
		UserID: chosen.From.ID,
		Query:  chosen.Query,
		ID:     chosen.ResultID,
	}, true, nil
}

func mapMessageReaction(reaction *sim.MessageReaction) (tg.UpdateClass, bool, error) {
	if reaction == nil {
		return nil, false, fmt.Errorf("map message reaction: nil reaction")
	}
	if reaction.User == nil {
		return nil, false, fmt.Errorf("map message reaction: missing user")
	}

	return &tg.UpdateBotMessageReaction{
		Peer:         peerForChat(reaction.Chat),
		MsgID:        int(reaction.MessageID),
		Date:         timeToInt(reaction.Date),
		Actor:        &tg.PeerUser{UserID: reaction.User.ID},
		OldReactions: emojiToReactions(reaction.Old),
		NewReactions: emojiToReactions(reaction.New),
	}, true, nil
}

func emojiToReactions(emoji []string) []tg.ReactionClass {
	if len(emoji) == 0 {
		return nil
	}

	out := make([]tg.ReactionClass, 0, len(emoji))
	for _, e := range emoji {
		out = append(out, &tg.ReactionEmoji{Emoticon: e})
	}

	return out
}

// peerForChat picks the tg peer class matching the chat kind. Private chats
// use the chat id as the peer user id, which keeps the mapping total without
// tracking chat ownership.
func peerForChat(chat *sim.Chat) tg.PeerClass {
	if chat == nil {
		return &tg.PeerUser{}
	}

	switch chat.Kind {
	case sim.ChatKindGroup:
		return &tg.PeerChat{ChatID: chat.ID}
	case sim.ChatKindSupergroup, sim.ChatKindChannel:
		return &tg.PeerChannel{ChannelID: chat.ID}
	default:
		return &tg.PeerUser{UserID: chat.ID}
	}
}

func peerTypeForKind(kind sim.ChatKind) tg.InlineQueryPeerTypeClass {
	switch kind {
	case sim.ChatKindPrivate:
		return &tg.InlineQueryPeerTypePM{}
	case sim.ChatKindGroup:
		return &tg.InlineQueryPeerTypeChat{}
	case sim.ChatKindSupergroup:
		return &tg.InlineQueryPeerTypeMegagroup{}
	case sim.ChatKindChannel:
		return &tg.InlineQueryPeerTypeBroadcast{}
	default:
		return &tg.InlineQueryPeerTypeSameBotPM{}
	}
}

func isChannelChat(chat *sim.Chat) bool {
	if chat == nil {
		return false
	}

	return chat.Kind == sim.ChatKindSupergroup || chat.Kind == sim.ChatKindChannel
}

// numericID parses a decimal simulation id, hashing non-decimal ids so the
// mapping stays total and stable.
func numericID(id string) int64 {
	if parsed, err := strconv.ParseInt(id, 10, 64); err == nil {
		return parsed
	}

	return hashToken(id)
}

func hashToken(token string) int64 {
	if token == "" {
		return 0
	}

	digest := fnv.New64a()
	_, _ = digest.Write([]byte(token))

	return int64(digest.Sum64())
}

func timeToInt(at time.Time) int {
	if at.IsZero() {
		return 0
	}

	return int(at.Unix())
}
