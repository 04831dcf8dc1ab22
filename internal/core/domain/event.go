package domain

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/hoster-project/portal-sync/internal/core/errors"
)

// EventKind discriminates the realtime event union.
type EventKind string

const (
	KindNotification EventKind = "notification"
	KindChat         EventKind = "chat"
)

// Notification actions pushed by the platform.
const (
	NotificationCreated = "created"
	NotificationRead    = "read"
	NotificationDeleted = "deleted"
	NotificationCleared = "cleared"
)

// ChatMessage is the only chat action currently emitted by the platform.
const ChatMessage = "message"

// ChatType identifies the conversation surface a chat event belongs to.
type ChatType string

const (
	ChatSupport           ChatType = "support"
	ChatCleaning          ChatType = "cleaning"
	ChatProvider          ChatType = "provider"
	ChatGuest             ChatType = "guest"
	ChatProviderThread    ChatType = "provider-chat"
	ChatAdminConversation ChatType = "admin-conversation"
)

// Event is a single decoded push frame. Events are immutable and live only for
// the duration of a dispatch; nothing persists them client-side.
type Event struct {
	Kind   EventKind `json:"type"`
	Action string    `json:"action"`

	// Notification fields.
	EntityType     string `json:"entityType,omitempty"`
	EntityID       string `json:"entityId,omitempty"`
	NotificationID string `json:"notificationId,omitempty"`

	// Chat fields.
	ChatType ChatType `json:"chatType,omitempty"`
	ID       string   `json:"id,omitempty"`
	UserID   string   `json:"userId,omitempty"`
}

// Validate checks that the event is a well-formed member of the union.
func (e Event) Validate() error {
	switch e.Kind {
	case KindNotification:
		switch e.Action {
		case NotificationCreated, NotificationRead, NotificationDeleted, NotificationCleared:
			return nil
		}
		return fmt.Errorf("%w: notification action %q", apperrors.ErrMalformedFrame, e.Action)

	case KindChat:
		if e.Action != ChatMessage {
			return fmt.Errorf("%w: chat action %q", apperrors.ErrMalformedFrame, e.Action)
		}
		switch e.ChatType {
		case ChatSupport, ChatCleaning, ChatProvider, ChatGuest, ChatProviderThread, ChatAdminConversation:
			return nil
		}
		return fmt.Errorf("%w: chat type %q", apperrors.ErrMalformedFrame, e.ChatType)

	default:
		return fmt.Errorf("%w: kind %q", apperrors.ErrMalformedFrame, e.Kind)
	}
}

// ParseFrame decodes a single UTF-8 JSON push frame into an Event.
// Frames that are not well-formed members of the union are rejected; the
// caller drops them without touching connection state.
func ParseFrame(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedFrame, err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}
