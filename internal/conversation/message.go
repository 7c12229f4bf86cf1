package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Speaker identifies one of the two conversational parties.
type Speaker string

const (
	SpeakerUser   Speaker = "USER"
	SpeakerAvatar Speaker = "AVATAR"
)

// DisplayName returns the name used when rendering or exporting a message.
func (s Speaker) DisplayName() string {
	switch s {
	case SpeakerUser:
		return "You"
	case SpeakerAvatar:
		return "Avatar"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the two known speakers.
func (s Speaker) Valid() bool {
	return s == SpeakerUser || s == SpeakerAvatar
}

// Message is a single entry in the conversation log. Content and Timestamp are
// overwritten in place while the message is open; Timestamp always reflects the
// last content change, not creation.
type Message struct {
	ID        string    `json:"id"`
	Speaker   Speaker   `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func newMessage(speaker Speaker, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Speaker:   speaker,
		Content:   content,
		Timestamp: time.Now(),
	}
}
