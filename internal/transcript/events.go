package transcript

import "github.com/parleyhq/parley/internal/conversation"

// EventType names the lifecycle signals delivered by the streaming host.
type EventType string

const (
	EventSpeakerStart    EventType = "speaker_start"
	EventSpeakerStop     EventType = "speaker_stop"
	EventContentFragment EventType = "content_fragment"
	EventTurnEnd         EventType = "turn_end"
)

// Event is a single lifecycle or content signal from the streaming host.
// Speaker is required for everything except turn_end; Text only carries
// meaning for content fragments.
type Event struct {
	Type    EventType            `json:"type"`
	Speaker conversation.Speaker `json:"speaker,omitempty"`
	Text    string               `json:"text,omitempty"`
}
