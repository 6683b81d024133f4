package conversationrepo

import (
	"context"
	"time"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/conversation"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Repository implements conversation.Repository over the conversations and messages tables.
type Repository struct {
	store backend.Store
}

var _ conversation.Repository = (*Repository)(nil)

// New creates a conversation repository bound to a backend store.
func New(store backend.Store) *Repository {
	return &Repository{store: store}
}

var contactEmbed = &backend.Embed{
	Alias:      "contact",
	Table:      backend.TableContacts,
	ForeignKey: "contact_id",
	Columns:    []string{"name", "phone"},
}

type messageRow struct {
	UserID         string                      `json:"user_id"`
	ConversationID string                      `json:"conversation_id"`
	Content        string                      `json:"content"`
	IsOutgoing     bool                        `json:"is_outgoing"`
	Status         conversation.DeliveryStatus `json:"status"`
}

type touchRow struct {
	LastMessageAt time.Time `json:"last_message_at"`
}

// List returns conversations with their contact, most recently active first.
func (r *Repository) List(ctx context.Context) ([]conversation.Conversation, error) {
	raw, err := r.store.Select(ctx, backend.TableConversations, backend.Query{
		Embed: contactEmbed,
		Order: &backend.Order{Column: "last_message_at"},
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "select conversations")
	}
	items, err := backend.Decode[conversation.Conversation](raw)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "decode conversations", err, "2b7f4c1a-0c55-4f65-8f0b-7a2e6d3c9b21")
	}
	return items, nil
}

// Messages returns the messages of one conversation, oldest first.
func (r *Repository) Messages(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	raw, err := r.store.Select(ctx, backend.TableMessages, backend.Query{
		Order:   &backend.Order{Column: "created_at", Ascending: true},
		Filters: []backend.Filter{backend.Eq("conversation_id", conversationID)},
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "select messages")
	}
	items, err := backend.Decode[conversation.Message](raw)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "decode messages", err, "2b7f4c1a-0c55-4f65-8f0b-7a2e6d3c9b22")
	}
	return items, nil
}

// Send inserts an outgoing message marked as sent.
func (r *Repository) Send(ctx context.Context, userID string, draft conversation.Draft) error {
	row := messageRow{
		UserID:         userID,
		ConversationID: draft.ConversationID,
		Content:        draft.Content,
		IsOutgoing:     true,
		Status:         conversation.DeliverySent,
	}
	if err := r.store.Insert(ctx, backend.TableMessages, row); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "insert message")
	}
	return nil
}

// Touch sets the last activity time of a conversation.
func (r *Repository) Touch(ctx context.Context, conversationID string, at time.Time) error {
	if err := r.store.Update(ctx, backend.TableConversations, touchRow{LastMessageAt: at.UTC()}, conversationID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "update conversation activity")
	}
	return nil
}
