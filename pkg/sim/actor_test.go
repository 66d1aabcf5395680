package sim

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestSendMessageDefaultsToPrivateChat(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()

	message, err := user.SendMessage(context.Background(), "/start")
	if err != nil {
		t.Fatalf("send err = %v, want nil", err)
	}
	if message.Chat != user.PrivateChat() {
		t.Fatal("message chat is not the sender's private chat")
	}
	if message.Text != "/start" {
		t.Fatalf("text = %q, want %q", message.Text, "/start")
	}
	if message.ID != 1 {
		t.Fatalf("message id = %d, want 1", message.ID)
	}

	if len(dispatcher.updates) != 1 || dispatcher.updates[0].Message != message {
		t.Fatal("dispatcher did not receive the sent message")
	}
	if got := user.PrivateChat().LastMessage(); got != message {
		t.Fatal("message missing from chat history")
	}
}

func TestSendMessageToRecordsHistoryOnDispatcherError(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	dispatcher.err = errors.New("handler exploded")
	user := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)

	message, err := user.SendMessageTo(context.Background(), group, "hello")
	if !errors.Is(err, dispatcher.err) {
		t.Fatalf("err = %v, want dispatcher error", err)
	}
	if message == nil {
		t.Fatal("message = nil, want built message alongside error")
	}
	if got := group.LastMessage(); got != message {
		t.Fatal("message missing from history despite being built")
	}
}

func TestSendMessageRequiresAttachment(t *testing.T) {
	t.Parallel()

	user := NewUser(NewSequence())

	if _, err := user.SendMessage(context.Background(), "hi"); !errors.Is(err, ErrNotAttached) {
		t.Fatalf("err = %v, want ErrNotAttached", err)
	}
}

func TestJoinEmitsTransitionThenServiceMessage(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)

	if err := user.Join(context.Background(), group); err != nil {
		t.Fatalf("join err = %v, want nil", err)
	}
	if !group.HasMember(user) {
		t.Fatal("user not in member set after join")
	}

	if len(dispatcher.updates) != 2 {
		t.Fatalf("delivered updates = %d, want 2", len(dispatcher.updates))
	}

	transition := dispatcher.updates[0].ChatMember
	if transition == nil {
		t.Fatalf("first update kind = %q, want chat member", dispatcher.updates[0].Kind())
	}
	if transition.OldStatus != MemberStatusLeft || transition.NewStatus != MemberStatusMember {
		t.Fatalf("transition = %s->%s, want left->member", transition.OldStatus, transition.NewStatus)
	}
	if transition.Actor != user || transition.Member != user {
		t.Fatal("self join must have the user as both actor and member")
	}

	service := dispatcher.updates[1].Message
	if service == nil {
		t.Fatalf("second update kind = %q, want message", dispatcher.updates[1].Kind())
	}
	if len(service.NewChatMembers) != 1 || service.NewChatMembers[0] != user {
		t.Fatal("service message does not carry the joined member")
	}
	if got := group.LastMessage(); got != service {
		t.Fatal("service message missing from chat history")
	}
}

func TestLeaveEmitsTransitionThenServiceMessage(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)
	ctx := context.Background()

	if err := user.Join(ctx, group); err != nil {
		t.Fatalf("join err = %v", err)
	}
	if err := user.Leave(ctx, group); err != nil {
		t.Fatalf("leave err = %v, want nil", err)
	}
	if group.HasMember(user) {
		t.Fatal("user still in member set after leave")
	}

	if len(dispatcher.updates) != 4 {
		t.Fatalf("delivered updates = %d, want 4", len(dispatcher.updates))
	}

	transition := dispatcher.updates[2].ChatMember
	if transition == nil || transition.OldStatus != MemberStatusMember || transition.NewStatus != MemberStatusLeft {
		t.Fatalf("transition = %+v, want member->left", transition)
	}

	service := dispatcher.updates[3].Message
	if service == nil || service.LeftChatMember != user {
		t.Fatal("service message does not carry the departed member")
	}
}

func TestMembershipAcrossUsers(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t)
	alice := env.CreateUser()
	bob := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)
	ctx := context.Background()

	if err := alice.Join(ctx, group); err != nil {
		t.Fatalf("alice join err = %v", err)
	}
	if err := bob.Join(ctx, group); err != nil {
		t.Fatalf("bob join err = %v", err)
	}
	if got := group.MemberCount(); got != 2 {
		t.Fatalf("member count = %d, want 2", got)
	}

	if err := alice.Leave(ctx, group); err != nil {
		t.Fatalf("alice leave err = %v", err)
	}
	if got := group.MemberCount(); got != 1 {
		t.Fatalf("member count after leave = %d, want 1", got)
	}
	if !group.HasMember(bob) || group.HasMember(alice) {
		t.Fatal("member set after leave should contain only bob")
	}
	// Two joins and one leave each append exactly one service message.
	if got := len(group.History()); got != 3 {
		t.Fatalf("service message count = %d, want 3", got)
	}
}

func TestReactIdempotence(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	ctx := context.Background()

	message, err := user.SendMessage(ctx, "post")
	if err != nil {
		t.Fatalf("send err = %v", err)
	}

	if err := user.React(ctx, message, "👍"); err != nil {
		t.Fatalf("first react err = %v", err)
	}
	if err := user.React(ctx, message, "👍"); err != nil {
		t.Fatalf("repeat react err = %v", err)
	}

	repeat := dispatcher.updates[2].MessageReaction
	if !slices.Equal(repeat.Old, []string{"👍"}) || !slices.Equal(repeat.New, []string{"👍"}) {
		t.Fatalf("repeat transition = %v -> %v, want [👍] -> [👍]", repeat.Old, repeat.New)
	}
	if got := message.ReactionsOf(user.ID); !slices.Equal(got, []string{"👍"}) {
		t.Fatalf("ledger = %v, want [👍]", got)
	}
}

func TestReactLedgerIsPerUser(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t)
	alice := env.CreateUser()
	bob := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)
	ctx := context.Background()

	message, err := alice.SendMessageTo(ctx, group, "post")
	if err != nil {
		t.Fatalf("send err = %v", err)
	}
	if err := alice.React(ctx, message, "👍"); err != nil {
		t.Fatalf("alice react err = %v", err)
	}
	if err := bob.React(ctx, message, "❤️"); err != nil {
		t.Fatalf("bob react err = %v", err)
	}

	if got := message.ReactionsOf(alice.ID); !slices.Equal(got, []string{"👍"}) {
		t.Fatalf("alice ledger = %v, want [👍]", got)
	}
	if got := message.ReactionsOf(bob.ID); !slices.Equal(got, []string{"❤️"}) {
		t.Fatalf("bob ledger = %v, want [❤️]", got)
	}
}

func TestLeaveWithoutMembershipReportsLeftToLeft(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)

	if err := user.Leave(context.Background(), group); err != nil {
		t.Fatalf("leave err = %v, want nil", err)
	}
	transition := dispatcher.updates[0].ChatMember
	if transition.OldStatus != MemberStatusLeft || transition.NewStatus != MemberStatusLeft {
		t.Fatalf("transition = %s->%s, want left->left", transition.OldStatus, transition.NewStatus)
	}
}

func TestClickCarriesDataAndChatInstance(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	ctx := context.Background()

	message, err := user.SendMessage(ctx, "menu")
	if err != nil {
		t.Fatalf("send err = %v", err)
	}
	returned, err := user.ClickOn(ctx, message, "page:2")
	if err != nil {
		t.Fatalf("click err = %v, want nil", err)
	}
	if _, err := user.Click(ctx, "noop"); err != nil {
		t.Fatalf("bare click err = %v, want nil", err)
	}

	first := dispatcher.updates[1].CallbackQuery
	if first == nil {
		t.Fatalf("update kind = %q, want callback query", dispatcher.updates[1].Kind())
	}
	if first != returned {
		t.Fatal("ClickOn did not return the emitted query")
	}
	if first.Data != "page:2" || first.Message != message || first.From != user {
		t.Fatalf("callback query = %+v, want bound data, message, and user", first)
	}

	second := dispatcher.updates[2].CallbackQuery
	if second.Message != nil {
		t.Fatal("bare click carries an originating message")
	}
	if first.ChatInstance == "" || first.ChatInstance == second.ChatInstance {
		t.Fatalf("chat instances = (%q, %q), want distinct non-empty", first.ChatInstance, second.ChatInstance)
	}
	if first.ID == second.ID {
		t.Fatalf("duplicate callback query id %q", first.ID)
	}
}

func TestReactReplacesLedgerWholesale(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	ctx := context.Background()

	message, err := user.SendMessage(ctx, "post")
	if err != nil {
		t.Fatalf("send err = %v", err)
	}

	if err := user.React(ctx, message, "👍", "🔥"); err != nil {
		t.Fatalf("first react err = %v, want nil", err)
	}
	first := dispatcher.updates[1].MessageReaction
	if len(first.Old) != 0 {
		t.Fatalf("first old set = %v, want empty", first.Old)
	}
	if !slices.Equal(first.New, []string{"👍", "🔥"}) {
		t.Fatalf("first new set = %v, want [👍 🔥]", first.New)
	}
	if first.Date.IsZero() {
		t.Fatal("reaction date not stamped")
	}

	if err := user.React(ctx, message, "❤️"); err != nil {
		t.Fatalf("second react err = %v, want nil", err)
	}
	second := dispatcher.updates[2].MessageReaction
	if !slices.Equal(second.Old, []string{"👍", "🔥"}) {
		t.Fatalf("second old set = %v, want previous ledger state", second.Old)
	}
	if !slices.Equal(second.New, []string{"❤️"}) {
		t.Fatalf("second new set = %v, want [❤️]", second.New)
	}

	if err := user.React(ctx, message); err != nil {
		t.Fatalf("clearing react err = %v, want nil", err)
	}
	if message.HasReactions(user.ID) {
		t.Fatal("ledger entry survived a clearing reaction")
	}
}

func TestReactWithIncrementalBuilder(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	ctx := context.Background()

	message, err := user.SendMessage(ctx, "post")
	if err != nil {
		t.Fatalf("send err = %v", err)
	}
	if err := user.React(ctx, message, "👍"); err != nil {
		t.Fatalf("seed react err = %v", err)
	}

	reaction := NewReactionUpdate(message, user).Add("🔥").Remove("👍")
	if err := user.ReactWith(ctx, reaction); err != nil {
		t.Fatalf("incremental react err = %v, want nil", err)
	}

	last := dispatcher.updates[len(dispatcher.updates)-1].MessageReaction
	if !slices.Equal(last.Old, []string{"👍"}) {
		t.Fatalf("old set = %v, want [👍]", last.Old)
	}
	if !slices.Equal(last.New, []string{"🔥"}) {
		t.Fatalf("new set = %v, want [🔥]", last.New)
	}
	if got := message.ReactionsOf(user.ID); !slices.Equal(got, []string{"🔥"}) {
		t.Fatalf("ledger = %v, want [🔥]", got)
	}
}

func TestReactAppliesLedgerDespiteDispatcherError(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	ctx := context.Background()

	message, err := user.SendMessage(ctx, "post")
	if err != nil {
		t.Fatalf("send err = %v", err)
	}

	dispatcher.err = errors.New("handler exploded")
	if err := user.React(ctx, message, "👍"); !errors.Is(err, dispatcher.err) {
		t.Fatalf("err = %v, want dispatcher error", err)
	}
	if got := message.ReactionsOf(user.ID); !slices.Equal(got, []string{"👍"}) {
		t.Fatalf("ledger = %v, want declared new state despite error", got)
	}
}

func TestSendInlineQueryOptions(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	group := env.CreateChat(ChatKindSupergroup)
	ctx := context.Background()

	bare, err := user.SendInlineQuery(ctx, "cats", nil)
	if err != nil {
		t.Fatalf("bare inline query err = %v, want nil", err)
	}
	if bare.ChatKind != ChatKindSender {
		t.Fatalf("bare kind = %q, want %q", bare.ChatKind, ChatKindSender)
	}

	scoped, err := user.SendInlineQuery(ctx, "dogs", &InlineQueryOptions{Chat: group, Offset: "20"})
	if err != nil {
		t.Fatalf("scoped inline query err = %v, want nil", err)
	}
	if scoped.ChatKind != ChatKindSupergroup || scoped.Offset != "20" {
		t.Fatalf("scoped query = %+v, want supergroup kind and offset 20", scoped)
	}
	if bare.ID == scoped.ID {
		t.Fatalf("duplicate inline query id %q", bare.ID)
	}

	if got := dispatcher.updates[1].InlineQuery; got != scoped {
		t.Fatal("dispatcher did not receive the scoped inline query")
	}
}

func TestChooseInlineResult(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	ctx := context.Background()

	returned, err := user.ChooseInlineResult(ctx, "result-3", "cats", &ChosenInlineResultOptions{InlineMessageID: "inline-1"})
	if err != nil {
		t.Fatalf("choose err = %v, want nil", err)
	}

	chosen := dispatcher.updates[0].ChosenInlineResult
	if chosen == nil {
		t.Fatalf("update kind = %q, want chosen inline result", dispatcher.updates[0].Kind())
	}
	if chosen != returned {
		t.Fatal("ChooseInlineResult did not return the emitted result")
	}
	if chosen.ResultID != "result-3" || chosen.Query != "cats" || chosen.InlineMessageID != "inline-1" {
		t.Fatalf("chosen result = %+v, want bound fields", chosen)
	}
	if chosen.From != user {
		t.Fatal("chosen result user mismatch")
	}
}

func TestChatScopeActions(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	user := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)
	ctx := context.Background()

	scope := user.In(group)
	if scope.Chat() != group {
		t.Fatal("scope chat mismatch")
	}

	if err := scope.Join(ctx); err != nil {
		t.Fatalf("scoped join err = %v", err)
	}
	message, err := scope.SendMessage(ctx, "hello group")
	if err != nil {
		t.Fatalf("scoped send err = %v", err)
	}
	if message.Chat != group {
		t.Fatal("scoped message bound to wrong chat")
	}
	query, err := scope.SendInlineQuery(ctx, "search")
	if err != nil {
		t.Fatalf("scoped inline query err = %v", err)
	}
	if query.ChatKind != ChatKindGroup {
		t.Fatalf("scoped query kind = %q, want %q", query.ChatKind, ChatKindGroup)
	}
	if err := scope.Leave(ctx); err != nil {
		t.Fatalf("scoped leave err = %v", err)
	}

	// join (2) + message + inline query + leave (2)
	if len(dispatcher.updates) != 6 {
		t.Fatalf("delivered updates = %d, want 6", len(dispatcher.updates))
	}
}

func TestMessageScopeActions(t *testing.T) {
	t.Parallel()

	env, dispatcher := newTestEnv(t)
	alice := env.CreateUser()
	bob := env.CreateUser()
	group := env.CreateChat(ChatKindGroup)
	ctx := context.Background()

	post, err := alice.SendMessageTo(ctx, group, "original")
	if err != nil {
		t.Fatalf("send err = %v", err)
	}

	scope := bob.On(post)
	if scope.Message() != post {
		t.Fatal("scope message mismatch")
	}

	if _, err := scope.Click(ctx, "vote:up"); err != nil {
		t.Fatalf("scoped click err = %v", err)
	}
	if err := scope.React(ctx, "👍"); err != nil {
		t.Fatalf("scoped react err = %v", err)
	}
	reply, err := scope.Reply(ctx, "agreed")
	if err != nil {
		t.Fatalf("scoped reply err = %v", err)
	}
	if reply.ReplyTo != post || reply.Chat != group {
		t.Fatal("reply not linked to the original message in its chat")
	}

	click := dispatcher.updates[1].CallbackQuery
	if click == nil || click.Message != post || click.From != bob {
		t.Fatal("scoped click not bound to message and user")
	}
	if got := post.ReactionsOf(bob.ID); !slices.Equal(got, []string{"👍"}) {
		t.Fatalf("ledger = %v, want [👍]", got)
	}
}
