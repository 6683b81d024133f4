package pages

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/application/listctl"
	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/conversation"
	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/infrastructure/repository/conversationrepo"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Conversations is the inbox page: a conversation list, the selected
// conversation's messages and a compose box.
type Conversations struct {
	*listctl.Collection[conversation.Conversation]
	Messages *listctl.Collection[conversation.Message]

	repo conversation.Repository
	auth backend.Auth
	sink notify.Sink
	now  func() time.Time
	log  zerolog.Logger

	mu       sync.Mutex
	selected *conversation.Conversation
	compose  string
}

// NewConversations builds the inbox page.
func NewConversations(deps Deps) *Conversations {
	deps = deps.withDefaults()
	repo := conversationrepo.New(deps.Client)
	log := deps.Log.With().Str("component", "conversations-page").Logger()
	return &Conversations{
		Collection: listctl.NewCollection[conversation.Conversation]("conversations", repo.List, deps.Sink, log),
		Messages:   listctl.NewCollection[conversation.Message]("messages", nil, deps.Sink, log),
		repo:       repo,
		auth:       deps.Client,
		sink:       deps.Sink,
		now:        deps.Now,
		log:        log,
	}
}

// Selected returns the selected conversation, if any.
func (p *Conversations) Selected() (conversation.Conversation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return conversation.Conversation{}, false
	}
	return *p.selected, true
}

// SelectConversation selects cached conversation id and loads its messages.
// A load for a previous selection that finishes late is discarded.
func (p *Conversations) SelectConversation(ctx context.Context, id string) bool {
	c, ok := p.Find(id)
	if !ok {
		return false
	}
	p.mu.Lock()
	changed := p.selected == nil || p.selected.ID != id
	p.selected = &c
	p.mu.Unlock()

	if changed {
		p.Messages.Clear()
	}
	p.loadMessages(ctx, id)
	return true
}

func (p *Conversations) loadMessages(ctx context.Context, id string) bool {
	return p.Messages.Load(ctx, func(ctx context.Context) ([]conversation.Message, error) {
		return p.repo.Messages(ctx, id)
	})
}

// SetCompose replaces the compose buffer.
func (p *Conversations) SetCompose(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.compose = text
}

// Compose returns the compose buffer.
func (p *Conversations) Compose() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.compose
}

// SendMessage sends the trimmed compose buffer to the selected conversation.
// On success the buffer is cleared, the messages are reloaded, the
// conversation's last activity is set to now and the list is re-fetched.
func (p *Conversations) SendMessage(ctx context.Context) listctl.Result {
	p.mu.Lock()
	text := strings.TrimSpace(p.compose)
	var convID string
	if p.selected != nil {
		convID = p.selected.ID
	}
	p.mu.Unlock()

	if text == "" || convID == "" {
		return listctl.Skipped
	}
	userID := listctl.CurrentUser(ctx, p.auth, p.log)
	if userID == "" {
		return listctl.Skipped
	}

	if err := p.repo.Send(ctx, userID, conversation.Draft{ConversationID: convID, Content: text}); err != nil {
		platformerrors.LogError(p.log, err)
		p.sink.Notify(ctx, notify.Failure("Failed to send message"))
		return listctl.Failed
	}

	p.mu.Lock()
	p.compose = ""
	p.mu.Unlock()
	p.loadMessages(ctx, convID)

	if err := p.repo.Touch(ctx, convID, p.now().UTC()); err != nil {
		platformerrors.LogError(p.log, err)
		p.sink.Notify(ctx, notify.Failure("Failed to update conversation"))
	}
	p.Fetch(ctx)
	p.refreshSelection(convID)
	return listctl.Applied
}

func (p *Conversations) refreshSelection(id string) {
	c, ok := p.Find(id)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected != nil && p.selected.ID == id {
		p.selected = &c
	}
}

// ConversationRow is a conversation in the list.
type ConversationRow struct {
	conversation.Conversation
	ContactName string `json:"contact_name"`
	Selected    bool   `json:"selected"`
}

// MessageRow is a message bubble with its delivery glyph.
type MessageRow struct {
	conversation.Message
	Glyph *conversation.Glyph `json:"glyph,omitempty"`
}

// ConversationsView is the rendered state of the page.
type ConversationsView struct {
	Loading       bool              `json:"loading"`
	Search        string            `json:"search"`
	Total         int               `json:"total"`
	Conversations []ConversationRow `json:"conversations"`
	SelectedID    string            `json:"selected_id,omitempty"`
	Messages      []MessageRow      `json:"messages"`
	Compose       string            `json:"compose"`
}

// View renders the filtered conversation list and the open thread.
func (p *Conversations) View() ConversationsView {
	var selectedID string
	if c, ok := p.Selected(); ok {
		selectedID = c.ID
	}

	visible := p.Visible()
	rows := make([]ConversationRow, 0, len(visible))
	for _, c := range visible {
		rows = append(rows, ConversationRow{Conversation: c, ContactName: c.ContactName(), Selected: c.ID == selectedID})
	}

	var messages []MessageRow
	if selectedID != "" {
		items := p.Messages.Items()
		messages = make([]MessageRow, 0, len(items))
		for _, m := range items {
			row := MessageRow{Message: m}
			if m.IsOutgoing {
				glyph := m.Status.Glyph()
				row.Glyph = &glyph
			}
			messages = append(messages, row)
		}
	}

	return ConversationsView{
		Loading:       p.Loading(),
		Search:        p.SearchTerm(),
		Total:         p.Len(),
		Conversations: rows,
		SelectedID:    selectedID,
		Messages:      messages,
		Compose:       p.Compose(),
	}
}
