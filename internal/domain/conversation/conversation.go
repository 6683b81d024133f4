package conversation

import (
	"context"
	"time"

	"github.com/janhq/jan-crm/internal/domain/textmatch"
)

// ContactRef is the embedded contact shown next to a conversation.
type ContactRef struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// Conversation is a message thread with one contact.
type Conversation struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	ContactID     string      `json:"contact_id"`
	LastMessageAt time.Time   `json:"last_message_at"`
	UnreadCount   int         `json:"unread_count"`
	CreatedAt     time.Time   `json:"created_at"`
	Contact       *ContactRef `json:"contact"`
}

// Key returns the conversation id.
func (c Conversation) Key() string { return c.ID }

// ContactName returns the embedded contact's name, or "" when the join is empty.
func (c Conversation) ContactName() string {
	if c.Contact == nil {
		return ""
	}
	return c.Contact.Name
}

// Matches reports whether term occurs in the contact name.
func (c Conversation) Matches(term string) bool {
	return textmatch.AnyContains(term, c.ContactName())
}

// Message is one bubble in a conversation.
type Message struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	ConversationID string         `json:"conversation_id"`
	Content        string         `json:"content"`
	IsOutgoing     bool           `json:"is_outgoing"`
	Status         DeliveryStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Key returns the message id.
func (m Message) Key() string { return m.ID }

// Draft is an outgoing message about to be inserted.
type Draft struct {
	ConversationID string
	Content        string
}

// Repository reads conversations and appends outgoing messages.
type Repository interface {
	List(ctx context.Context) ([]Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]Message, error)
	Send(ctx context.Context, userID string, draft Draft) error
	Touch(ctx context.Context, conversationID string, at time.Time) error
}
