package conversation

import (
	"strings"
	"sync"
	"time"
)

// Summary is a condensed view of the log for presentation collaborators.
type Summary struct {
	TotalMessages  int        `json:"total_messages"`
	UserMessages   int        `json:"user_messages"`
	AvatarMessages int        `json:"avatar_messages"`
	LastSpeaker    Speaker    `json:"last_speaker,omitempty"`
	LastTimestamp  *time.Time `json:"last_timestamp,omitempty"`
}

// Log is the authoritative ordered store of conversation messages. It is
// append-only except for the most recent message, which stays open for in-place
// content updates while its speaker holds the turn. All mutations go through a
// single mutex; hosts that deliver events concurrently are serialized here.
type Log struct {
	mu            sync.RWMutex
	messages      []Message
	activeSpeaker Speaker
}

// NewLog returns an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// AppendOrUpdate is the coalescing rule for both one-shot messages and
// streaming partials. Blank content is ignored. If the speaker already holds
// the turn the last message is overwritten in place; otherwise a new message is
// appended and the turn passes to the speaker.
func (l *Log) AppendOrUpdate(speaker Speaker, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeSpeaker == speaker && len(l.messages) > 0 {
		last := &l.messages[len(l.messages)-1]
		last.Content = trimmed
		last.Timestamp = time.Now()
		return
	}

	l.activeSpeaker = speaker
	l.messages = append(l.messages, newMessage(speaker, trimmed))
}

// StartTurn opens an empty placeholder message for the speaker. This is the
// out-of-band path used when a turn is signalled before any words arrive; the
// streaming path never creates empty messages.
func (l *Log) StartTurn(speaker Speaker) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeSpeaker == speaker && len(l.messages) > 0 {
		return
	}

	l.activeSpeaker = speaker
	l.messages = append(l.messages, newMessage(speaker, ""))
}

// MarkTurnEnded closes the open message without touching its content. Safe to
// call repeatedly.
func (l *Log) MarkTurnEnded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activeSpeaker = ""
}

// ActiveSpeaker returns the speaker whose message is currently open, or the
// empty value when no message is open.
func (l *Log) ActiveSpeaker() Speaker {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activeSpeaker
}

// Remove deletes the message with the given id. Missing ids are a benign no-op.
func (l *Log) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, msg := range l.messages {
		if msg.ID == id {
			// Removing the open message closes the turn; coalescing must never
			// reach back into a message owned by another speaker.
			if i == len(l.messages)-1 {
				l.activeSpeaker = ""
			}
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Clear resets the log to its initial empty state. Safe to call while a turn is
// open.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
	l.activeSpeaker = ""
}

// Count returns the number of messages in the log.
func (l *Log) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Last returns the most recent message, if any.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// Messages returns a copy of the log in display order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// BySpeaker returns the messages sent by the given speaker, in original order.
func (l *Log) BySpeaker(speaker Speaker) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Message
	for _, msg := range l.messages {
		if msg.Speaker == speaker {
			out = append(out, msg)
		}
	}
	return out
}

// Recent returns the last n messages in original order. n <= 0 yields an empty
// slice.
func (l *Log) Recent(n int) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	if n > len(l.messages) {
		n = len(l.messages)
	}

	out := make([]Message, n)
	copy(out, l.messages[len(l.messages)-n:])
	return out
}

// Summary returns per-speaker counts and the last speaker/timestamp.
func (l *Log) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := Summary{TotalMessages: len(l.messages)}
	for _, msg := range l.messages {
		switch msg.Speaker {
		case SpeakerUser:
			summary.UserMessages++
		case SpeakerAvatar:
			summary.AvatarMessages++
		}
	}

	if len(l.messages) > 0 {
		last := l.messages[len(l.messages)-1]
		summary.LastSpeaker = last.Speaker
		ts := last.Timestamp
		summary.LastTimestamp = &ts
	}
	return summary
}
