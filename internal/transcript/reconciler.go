package transcript

import (
	"sync"

	"github.com/parleyhq/parley/internal/conversation"
	"github.com/rs/zerolog/log"
)

// Reconciler folds speaker lifecycle events into the conversation log. It owns
// no state beyond per-speaker talking flags, which track raw audio activity and
// may momentarily disagree with the log's active speaker.
//
// Event delivery is fire-and-forget: malformed events are logged and dropped so
// they never interrupt the events that follow.
type Reconciler struct {
	mu            sync.RWMutex
	log           *conversation.Log
	userTalking   bool
	avatarTalking bool
}

// NewReconciler wires a reconciler to the injected conversation log.
func NewReconciler(convLog *conversation.Log) *Reconciler {
	return &Reconciler{log: convLog}
}

// Handle dispatches a single event. It never returns an error; problems are
// absorbed at this boundary per the one-way delivery contract.
func (r *Reconciler) Handle(event Event) {
	switch event.Type {
	case EventSpeakerStart:
		r.handleSpeakerStart(event.Speaker)
	case EventSpeakerStop:
		r.handleSpeakerStop(event.Speaker)
	case EventContentFragment:
		r.handleFragment(event.Speaker, event.Text)
	case EventTurnEnd:
		r.log.MarkTurnEnded()
	default:
		log.Warn().
			Str("type", string(event.Type)).
			Msg("Dropping transcript event with unknown type")
	}
}

func (r *Reconciler) handleSpeakerStart(speaker conversation.Speaker) {
	if !speaker.Valid() {
		log.Warn().Str("speaker", string(speaker)).Msg("speaker_start for unknown speaker")
		return
	}

	r.setTalking(speaker, true)

	// An avatar turn is visible before any words are transcribed; user turns
	// only appear once real content arrives.
	if speaker == conversation.SpeakerAvatar {
		r.log.StartTurn(conversation.SpeakerAvatar)
	}
}

func (r *Reconciler) handleSpeakerStop(speaker conversation.Speaker) {
	if !speaker.Valid() {
		log.Warn().Str("speaker", string(speaker)).Msg("speaker_stop for unknown speaker")
		return
	}
	r.setTalking(speaker, false)
}

func (r *Reconciler) handleFragment(speaker conversation.Speaker, text string) {
	if !speaker.Valid() {
		log.Warn().Str("speaker", string(speaker)).Msg("content_fragment for unknown speaker")
		return
	}

	normalized, err := conversation.ValidateContent(text)
	if err != nil {
		log.Debug().
			Err(err).
			Str("speaker", string(speaker)).
			Msg("Dropping unusable content fragment")
		return
	}

	r.log.AppendOrUpdate(speaker, normalized)
}

func (r *Reconciler) setTalking(speaker conversation.Speaker, talking bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if speaker == conversation.SpeakerUser {
		r.userTalking = talking
	} else {
		r.avatarTalking = talking
	}
}

// IsTalking reports the raw audio-activity flag for the speaker.
func (r *Reconciler) IsTalking(speaker conversation.Speaker) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if speaker == conversation.SpeakerUser {
		return r.userTalking
	}
	return r.avatarTalking
}

// Reset clears both talking flags and ends any open turn. The log's contents
// are left alone; use the log's Clear for a full teardown.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	r.userTalking = false
	r.avatarTalking = false
	r.mu.Unlock()
	r.log.MarkTurnEnded()
}
