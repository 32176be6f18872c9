package models

import (
	"encoding/json"
	"fmt"
)

// Chat modes. An endpoint seeks a partner in exactly one mode at a time.
const (
	ModeText  = "text"
	ModeVideo = "video"
)

// Gender preference selector values accepted in a join intent.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderRandom = "random"
)

// Inbound frame types.
const (
	FrameUserDetails    = "user-details"
	FrameSendMessage    = "send-message"
	FrameNext           = "next"
	FrameDisconnectChat = "disconnect-chat"
	FrameVideoOffer     = "video-offer"
	FrameVideoAnswer    = "video-answer"
	FrameICECandidate   = "ice-candidate"
	FrameEndCall        = "end-call"
)

// Outbound event types.
const (
	EventMatchFound          = "match-found"
	EventReceiveMessage      = "receive-message"
	EventFindOther           = "find-other"
	EventPartnerLeft         = "partner-left"
	EventPartnerDisconnected = "partner-disconnected"
	EventMatchTimeout        = "match-timeout"
	EventEndVideo            = "end-video"
	EventError               = "error"
)

// Envelope is the first pass over an inbound frame: just enough to route it.
type Envelope struct {
	Type string `json:"type"`
}

// Profile holds the matching-relevant attributes a user declares on each
// join intent. It is rebuilt from scratch every time the client sends
// user-details and stays immutable until the next join.
type Profile struct {
	Gender         string `json:"gender"`
	Interest       string `json:"interest"`
	Name           string `json:"name"`
	SelectedGender string `json:"selectedGender"`
}

// JoinRequest is the user-details payload.
type JoinRequest struct {
	Gender         string `json:"gender"`
	Interest       string `json:"interest"`
	Name           string `json:"name"`
	Mode           string `json:"mode"`
	SelectedGender string `json:"selectedGender"`
}

func (r JoinRequest) Validate() error {
	if r.Mode != ModeText && r.Mode != ModeVideo {
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	switch r.SelectedGender {
	case GenderMale, GenderFemale, GenderRandom:
	default:
		return fmt.Errorf("unknown gender preference %q", r.SelectedGender)
	}
	return nil
}

func (r JoinRequest) Profile() Profile {
	return Profile{
		Gender:         r.Gender,
		Interest:       r.Interest,
		Name:           r.Name,
		SelectedGender: r.SelectedGender,
	}
}

// ChatSend is the send-message payload.
type ChatSend struct {
	Message string `json:"message"`
	To      string `json:"to"`
}

// SkipRequest is the payload shared by next and disconnect-chat.
type SkipRequest struct {
	PartnerID string `json:"partnerId"`
	Mode      string `json:"mode"`
}

// SignalSend carries an opaque WebRTC signaling payload. The server never
// looks inside Payload.
type SignalSend struct {
	Payload json.RawMessage `json:"payload"`
	To      string          `json:"to"`
}

// CallEnd is the end-call payload.
type CallEnd struct {
	PartnerID string `json:"partnerId"`
}

// ServerEvent is a frame pushed to a client. Fields beyond Type are filled
// per event type; omitempty keeps the wire format tight.
type ServerEvent struct {
	Type      string          `json:"type"`
	PartnerID string          `json:"partnerId,omitempty"`
	Initiator bool            `json:"initiator,omitempty"`
	From      string          `json:"from,omitempty"`
	Message   string          `json:"message,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

func ErrorEvent(reason string) ServerEvent {
	return ServerEvent{Type: EventError, Reason: reason}
}
