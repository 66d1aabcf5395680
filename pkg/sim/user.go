package sim

import (
	"fmt"
	"strings"
)

// User is one simulated end user. Every user owns a private chat created at
// construction; the private chat is never reassigned.
type User struct {
	// ID is the simulation-scoped user identifier.
	ID int64
	// FirstName is the leading display name component. Defaults to "User {id}".
	FirstName string
	// LastName is the optional trailing display name component.
	LastName string
	// Username is the optional platform handle.
	Username string
	// LanguageCode is the optional IETF language tag.
	LanguageCode string
	// IsBot reports whether the user is an automated account.
	IsBot bool

	env         *Env
	privateChat *Chat
}

// NewUser constructs a default-populated user with the next allocated id, a
// generated display name, and a fresh private chat.
func NewUser(seq *Sequence) *User {
	user := &User{ID: seq.NextUserID()}
	user.FirstName = fmt.Sprintf("User %d", user.ID)
	user.privateChat = NewChat(seq).WithTitle(user.FirstName)

	return user
}

// WithName sets the first name and returns the user for chaining.
func (u *User) WithName(firstName string) *User {
	u.FirstName = firstName
	u.privateChat.Title = u.DisplayName()

	return u
}

// WithLastName sets the last name and returns the user for chaining.
func (u *User) WithLastName(lastName string) *User {
	u.LastName = lastName
	u.privateChat.Title = u.DisplayName()

	return u
}

// WithUsername sets the platform handle and returns the user for chaining.
func (u *User) WithUsername(username string) *User {
	u.Username = username

	return u
}

// WithLanguage sets the language tag and returns the user for chaining.
func (u *User) WithLanguage(code string) *User {
	u.LanguageCode = code

	return u
}

// AsBot marks the user as an automated account and returns it for chaining.
func (u *User) AsBot() *User {
	u.IsBot = true

	return u
}

// DisplayName returns the human-readable name composed from name components.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}

	return name
}

// PrivateChat returns the user's owned private chat.
func (u *User) PrivateChat() *Chat {
	return u.privateChat
}

// attached resolves the owning environment, failing fast before any state
// mutation when the user was never adopted by one.
func (u *User) attached() (*Env, error) {
	if u == nil || u.env == nil {
		return nil, fmt.Errorf("actor action: %w", ErrNotAttached)
	}

	return u.env, nil
}
