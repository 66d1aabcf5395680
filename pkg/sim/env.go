package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Dispatcher accepts one inbound update per call. The bot-under-test is
// opaque to the simulation: it only needs to handle updates and to route its
// outbound calls through the environment's Client.
type Dispatcher interface {
	// HandleUpdate processes one well-formed update synchronously, including
	// any outbound calls the bot's handlers make while it runs.
	HandleUpdate(ctx context.Context, update *Update) error
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, update *Update) error

// HandleUpdate invokes the wrapped function.
func (f DispatcherFunc) HandleUpdate(ctx context.Context, update *Update) error {
	return f(ctx, update)
}

// config stores resolved environment settings after option application.
type config struct {
	logger     *slog.Logger
	clock      func() time.Time
	seq        *Sequence
	dispatcher Dispatcher
}

// Option mutates environment construction configuration.
type Option func(*config)

func defaultEnvConfig() config {
	return config{
		logger: slog.Default(),
		clock:  func() time.Time { return time.Now().UTC() },
		seq:    NewSequence(),
	}
}

// WithLogger configures the logger used for update and call tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithClock configures the time source used for entity timestamps.
func WithClock(clock func() time.Time) Option {
	return func(cfg *config) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithSequence configures the identifier allocator. Pass SharedSequence() to
// draw ids from the process-wide stream instead of a per-environment one.
func WithSequence(seq *Sequence) Option {
	return func(cfg *config) {
		if seq != nil {
			cfg.seq = seq
		}
	}
}

// WithChatInstanceSeed configures a fresh allocator whose chat-instance
// tokens derive from the given entropy seed.
func WithChatInstanceSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seq = NewSeededSequence(seed)
	}
}

// WithDispatcher configures the bot dispatcher updates are forwarded to.
func WithDispatcher(dispatcher Dispatcher) Option {
	return func(cfg *config) {
		cfg.dispatcher = dispatcher
	}
}

// Env is the single stateful root of one test scenario. It owns the
// identifier allocator, the registered users and chats, the outbound call
// interceptor, and the update sequence. One environment/bot pair per
// scenario; sharing across concurrent scenarios is unsupported.
type Env struct {
	cfg    config
	client *Client
	users  []*User
	chats  []*Chat
}

// NewEnv creates an environment with a fresh identifier allocator unless
// options say otherwise.
func NewEnv(options ...Option) *Env {
	cfg := defaultEnvConfig()
	for _, option := range options {
		option(&cfg)
	}

	return &Env{
		cfg:    cfg,
		client: newClient(cfg.logger),
	}
}

// Client returns the outbound call interceptor the bot-under-test must use
// in place of a live API client.
func (e *Env) Client() *Client {
	return e.client
}

// Sequence returns the identifier allocator owned by this environment.
func (e *Env) Sequence() *Sequence {
	return e.cfg.seq
}

// SetDispatcher installs the bot dispatcher after construction.
func (e *Env) SetDispatcher(dispatcher Dispatcher) {
	e.cfg.dispatcher = dispatcher
}

func (e *Env) now() time.Time {
	return e.cfg.clock()
}

// CreateUser constructs a fresh default-populated user, links it to this
// environment, and registers it.
func (e *Env) CreateUser() *User {
	return e.AddUser(NewUser(e.cfg.seq))
}

// AddUser links an existing user to this environment and registers it. A
// user already linked here is returned unchanged; a user owned by another
// environment is left untouched.
func (e *Env) AddUser(user *User) *User {
	if user == nil {
		return nil
	}
	if user.env != nil {
		return user
	}
	user.env = e
	e.users = append(e.users, user)

	return user
}

// CreateChat constructs and registers a chat of the given kind.
func (e *Env) CreateChat(kind ChatKind) *Chat {
	chat := NewChat(e.cfg.seq).WithKind(kind)
	e.chats = append(e.chats, chat)

	return chat
}

// NewMessage constructs a message stamped with the environment clock. The
// message id is assigned once a chat is bound.
func (e *Env) NewMessage() *Message {
	return NewMessage(e.cfg.seq, e.now())
}

// NewCallbackQuery constructs a callback query with allocated identity and a
// fresh chat-instance token.
func (e *Env) NewCallbackQuery(from *User) *CallbackQuery {
	return &CallbackQuery{
		ID:           e.cfg.seq.NextCallbackQueryID(),
		From:         from,
		ChatInstance: e.cfg.seq.NextChatInstance(e.now()),
	}
}

// NewInlineQuery constructs an inline query with allocated identity and the
// outside-any-chat kind hint.
func (e *Env) NewInlineQuery(from *User) *InlineQuery {
	return &InlineQuery{
		ID:       e.cfg.seq.NextInlineQueryID(),
		From:     from,
		ChatKind: ChatKindSender,
	}
}

// EmitMessage wraps a bare message as a new-message update and emits it.
func (e *Env) EmitMessage(ctx context.Context, message *Message) error {
	return e.EmitUpdate(ctx, &Update{Message: message})
}

// EmitUpdate stamps the next global update id (overwriting any caller-supplied
// value), validates the envelope, and forwards it to the dispatcher. Whatever
// the dispatcher returns propagates unmodified.
func (e *Env) EmitUpdate(ctx context.Context, update *Update) error {
	if update == nil {
		return fmt.Errorf("emit update: %w", ErrInvalidUpdate)
	}
	if e.cfg.dispatcher == nil {
		return fmt.Errorf("emit update: %w", ErrNoDispatcher)
	}

	update.ID = e.cfg.seq.NextUpdateID()
	if err := update.Validate(); err != nil {
		return fmt.Errorf("emit update: %w", err)
	}

	e.cfg.logger.DebugContext(ctx, "chatsim update",
		"update_id", update.ID,
		"kind", update.Kind(),
	)

	return e.cfg.dispatcher.HandleUpdate(ctx, update)
}

// OnAPI installs a static override for one outbound method. The value may be
// an *APIError to make matching calls fail platform-style.
func (e *Env) OnAPI(method string, value any) {
	e.client.On(method, value)
}

// OnAPIFunc installs a response-computing override for one outbound method.
func (e *Env) OnAPIFunc(method string, handler Handler) {
	e.client.OnFunc(method, handler)
}

// OffAPI removes overrides for the named methods; with no arguments it
// reverts every method to the default responder.
func (e *Env) OffAPI(methods ...string) {
	e.client.Off(methods...)
}

// Calls returns the ordered outbound call log.
func (e *Env) Calls() []APICall {
	return e.client.Calls()
}

// LastCall returns the most recent outbound call log entry.
func (e *Env) LastCall() (APICall, bool) {
	return e.client.LastCall()
}

// Users returns the registered users in registration order.
func (e *Env) Users() []*User {
	return append([]*User(nil), e.users...)
}

// Chats returns the registered chats in registration order.
func (e *Env) Chats() []*Chat {
	return append([]*Chat(nil), e.chats...)
}
