package sim

// CallbackQuery is one simulated inline-button click.
type CallbackQuery struct {
	// ID is the global callback query identifier.
	ID string
	// From is the clicking user.
	From *User
	// Message is the optional message carrying the clicked button.
	Message *Message
	// Data is the free-form payload attached to the button.
	Data string
	// ChatInstance is the opaque per-click widget context token.
	ChatInstance string
}

// WithData sets the button payload and returns the query for chaining.
func (q *CallbackQuery) WithData(data string) *CallbackQuery {
	q.Data = data

	return q
}

// WithMessage attaches the clicked message and returns the query for chaining.
func (q *CallbackQuery) WithMessage(message *Message) *CallbackQuery {
	q.Message = message

	return q
}

// InlineQuery is one simulated inline query.
type InlineQuery struct {
	// ID is the global inline query identifier.
	ID string
	// From is the querying user.
	From *User
	// Query is the query text.
	Query string
	// Offset is the pagination offset requested by the client.
	Offset string
	// ChatKind hints at the conversation kind the query was issued from.
	// Defaults to ChatKindSender when no chat context is known.
	ChatKind ChatKind
}

// WithQuery sets the query text and returns the query for chaining.
func (q *InlineQuery) WithQuery(text string) *InlineQuery {
	q.Query = text

	return q
}

// WithOffset sets the pagination offset and returns the query for chaining.
func (q *InlineQuery) WithOffset(offset string) *InlineQuery {
	q.Offset = offset

	return q
}

// WithChatKind sets the conversation kind hint and returns the query for chaining.
func (q *InlineQuery) WithChatKind(kind ChatKind) *InlineQuery {
	q.ChatKind = kind

	return q
}

// ChosenInlineResult records that a user picked one result of an inline query.
type ChosenInlineResult struct {
	// ResultID identifies the picked result.
	ResultID string
	// From is the picking user.
	From *User
	// Query is the inline query text that produced the result.
	Query string
	// InlineMessageID optionally references the message the result produced.
	InlineMessageID string
}

// WithInlineMessageID sets the produced-message reference and returns the
// result for chaining.
func (r *ChosenInlineResult) WithInlineMessageID(id string) *ChosenInlineResult {
	r.InlineMessageID = id

	return r
}
