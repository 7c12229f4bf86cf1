package avatar

// SessionRequest carries optional overrides for a new streaming session. All
// three ids fall back to provider defaults when empty.
type SessionRequest struct {
	AvatarID        string `json:"avatar_id,omitempty"`
	VoiceID         string `json:"voice_id,omitempty"`
	KnowledgeBaseID string `json:"knowledge_base_id,omitempty"`
}

// SpeakRequest is a single speech dispatch. task_type "repeat" speaks the text
// verbatim; "talk" lets the provider generate a response.
type SpeakRequest struct {
	Text     string `json:"text" validate:"required,max=5000"`
	TaskType string `json:"task_type,omitempty" validate:"omitempty,oneof=repeat talk"`
}

// SessionData is the provider's description of a created session.
type SessionData struct {
	SessionID   string `json:"session_id"`
	URL         string `json:"url,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

type sttSettings struct {
	Provider   string  `json:"provider"`
	Confidence float64 `json:"confidence"`
}

type voiceSettings struct {
	VoiceID string  `json:"voice_id,omitempty"`
	Rate    float64 `json:"rate"`
	Emotion string  `json:"emotion,omitempty"`
}

type newSessionPayload struct {
	Quality             string         `json:"quality"`
	Version             string         `json:"version"`
	VideoEncoding       string         `json:"video_encoding"`
	DisableIdleTimeout  bool           `json:"disable_idle_timeout"`
	ActivityIdleTimeout int            `json:"activity_idle_timeout"`
	STTSettings         sttSettings    `json:"stt_settings"`
	AvatarID            string         `json:"avatar_id,omitempty"`
	Voice               *voiceSettings `json:"voice,omitempty"`
	KnowledgeBaseID     string         `json:"knowledge_base_id,omitempty"`
}

type sessionEnvelope struct {
	Data *SessionData `json:"data"`
}

type taskPayload struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	TaskType  string `json:"task_type"`
}

type sessionIDPayload struct {
	SessionID string `json:"session_id"`
}
