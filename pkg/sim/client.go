package sim

import (
	"context"
	"log/slog"
)

// Params is the free-form parameter bag of one outbound call.
type Params map[string]any

// String returns the string value stored under key, or empty.
func (p Params) String(key string) string {
	value, _ := p[key].(string)

	return value
}

// Int64 returns the integer value stored under key, tolerating the common
// numeric types a caller might use, or zero.
func (p Params) Int64(key string) int64 {
	switch value := p[key].(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case float64:
		return int64(value)
	default:
		return 0
	}
}

func (p Params) clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for key, value := range p {
		out[key] = value
	}

	return out
}

// Handler computes the response of one intercepted outbound method call.
type Handler func(ctx context.Context, params Params) (any, error)

// APICall is one intercepted outbound call: method, parameters, and the
// produced response or error.
type APICall struct {
	// Method is the invoked outbound method name.
	Method string
	// Params is the parameter bag the caller supplied.
	Params Params
	// Response is the produced payload for successful outcomes.
	Response any
	// Err is the produced failure for rejected outcomes.
	Err error
}

type override struct {
	value   any
	handler Handler
}

// Client is the outbound call interceptor: the sole path through which the
// bot-under-test invokes platform operations. Every invocation is answered
// from the override table or the built-in default responder, and appended to
// an ordered call log before the call resolves.
type Client struct {
	logger            *slog.Logger
	overrides         map[string]override
	calls             []APICall
	responseMessageID int64
}

func newClient(logger *slog.Logger) *Client {
	return &Client{
		logger:    logger,
		overrides: make(map[string]override),
	}
}

// Invoke answers one outbound method call. Overrides win over the default
// responder; an APIError produced by either path resolves the call as a
// failed outcome carrying that error.
func (c *Client) Invoke(ctx context.Context, method string, params Params) (any, error) {
	var response any
	var err error

	if registered, ok := c.overrides[method]; ok {
		if registered.handler != nil {
			response, err = registered.handler(ctx, params)
		} else {
			response = registered.value
		}
	} else {
		response = c.defaultResponse(method, params)
	}

	if apiErr, ok := response.(*APIError); ok {
		response, err = nil, apiErr
	}

	c.calls = append(c.calls, APICall{
		Method:   method,
		Params:   params.clone(),
		Response: response,
		Err:      err,
	})
	c.logger.DebugContext(ctx, "chatsim outbound call",
		"method", method,
		"call_index", len(c.calls)-1,
		"error", err,
	)

	return response, err
}

// On installs a static override for one method, replacing any previous one.
// The value may be an *APIError to make matching calls fail platform-style.
func (c *Client) On(method string, value any) {
	c.overrides[method] = override{value: value}
}

// OnFunc installs a response-computing override for one method, replacing
// any previous one.
func (c *Client) OnFunc(method string, handler Handler) {
	c.overrides[method] = override{handler: handler}
}

// Off removes overrides for the named methods. With no arguments the whole
// table is cleared, reverting every method to the default responder.
func (c *Client) Off(methods ...string) {
	if len(methods) == 0 {
		c.overrides = make(map[string]override)

		return
	}
	for _, method := range methods {
		delete(c.overrides, method)
	}
}

// Calls returns the ordered outbound call log.
func (c *Client) Calls() []APICall {
	return append([]APICall(nil), c.calls...)
}

// LastCall returns the most recent log entry.
func (c *Client) LastCall() (APICall, bool) {
	if len(c.calls) == 0 {
		return APICall{}, false
	}

	return c.calls[len(c.calls)-1], true
}

// defaultResponse synthesizes a minimal plausible success payload. Send-style
// calls answer with a message record carrying a response-local id and a
// zero-time date; everything else answers with a bare success value.
func (c *Client) defaultResponse(method string, params Params) any {
	switch method {
	case "sendMessage":
		c.responseMessageID++

		return &Message{
			ID:   c.responseMessageID,
			Chat: newChat(params.Int64("chat_id"), ChatKindPrivate),
			Text: params.String("text"),
		}
	default:
		return true
	}
}
