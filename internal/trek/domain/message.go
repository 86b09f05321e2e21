package domain

import "time"

// MessageKind classifies emitted messages for rendering.
type MessageKind string

const (
	// MessageSystem is narration produced by the engine itself.
	MessageSystem MessageKind = "system"
	// MessageSpeech is a line spoken by a role.
	MessageSpeech MessageKind = "speech"
	// MessageAction narrates something a role did.
	MessageAction MessageKind = "action"
)

// Message is one entry in the ordered output of an engine step.
type Message struct {
	ID        string      `json:"id"`
	Kind      MessageKind `json:"kind"`
	RoleID    string      `json:"role_id,omitempty"`
	RoleName  string      `json:"role_name,omitempty"`
	Content   string      `json:"content"`
	Emote     string      `json:"emote,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChatEntry is one line of the rolling session transcript fed to companion
// generation.
type ChatEntry struct {
	SpeakerID   string      `json:"speaker_id,omitempty"`
	SpeakerName string      `json:"speaker_name"`
	Kind        MessageKind `json:"kind"`
	Content     string      `json:"content"`
}
