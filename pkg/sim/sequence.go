package sim

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Sequence issues the monotonically increasing identifiers used by the
// simulation: one global counter per entity category plus a per-chat message
// sequence starting at 1. Allocation never fails and counters never reset.
//
// A single Sequence may be shared by several environments; the shared
// process-wide instance reproduces platform-style global sequencing, while a
// fresh Sequence per environment keeps scenarios independent.
type Sequence struct {
	mu              sync.Mutex
	userID          int64
	chatID          int64
	callbackQueryID int64
	inlineQueryID   int64
	updateID        int64
	messageIDs      map[int64]int64
	entropy         *ulid.MonotonicEntropy
}

// NewSequence creates an empty allocator with deterministic chat-instance entropy.
func NewSequence() *Sequence {
	return NewSeededSequence(1)
}

// NewSeededSequence creates an empty allocator whose chat-instance tokens are
// derived from the given entropy seed. Equal seeds yield equal token streams.
func NewSeededSequence(seed int64) *Sequence {
	return &Sequence{
		messageIDs: make(map[int64]int64),
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

var sharedSequence = NewSequence()

// SharedSequence returns the process-wide allocator. Environments built with
// WithSequence(SharedSequence()) draw ids from one global stream, so ids stay
// distinct across environments within a process lifetime.
func SharedSequence() *Sequence {
	return sharedSequence
}

// NextUserID returns the next user identifier.
func (s *Sequence) NextUserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID++

	return s.userID
}

// NextChatID returns the next chat identifier.
func (s *Sequence) NextChatID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatID++

	return s.chatID
}

// NextCallbackQueryID returns the next callback query identifier.
func (s *Sequence) NextCallbackQueryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbackQueryID++

	return strconv.FormatInt(s.callbackQueryID, 10)
}

// NextInlineQueryID returns the next inline query identifier.
func (s *Sequence) NextInlineQueryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inlineQueryID++

	return strconv.FormatInt(s.inlineQueryID, 10)
}

// NextUpdateID returns the next global update identifier.
func (s *Sequence) NextUpdateID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateID++

	return s.updateID
}

// NextMessageID returns the next message identifier for one chat. Message ids
// are per-chat sequences starting at 1, independent across chats.
func (s *Sequence) NextMessageID(chatID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageIDs[chatID]++

	return s.messageIDs[chatID]
}

// NextChatInstance returns an opaque per-click widget context token.
func (s *Sequence) NextChatInstance(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at.IsZero() {
		at = time.Unix(0, 0)
	}

	return ulid.MustNew(ulid.Timestamp(at.UTC()), s.entropy).String()
}
