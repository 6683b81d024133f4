// Package seed loads demo data for one account from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/contact"
	"github.com/janhq/jan-crm/internal/domain/conversation"
	"github.com/janhq/jan-crm/internal/domain/reminder"
	"github.com/janhq/jan-crm/internal/domain/template"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// File is the seed document.
type File struct {
	Account       Account        `yaml:"account"`
	Contacts      []Contact      `yaml:"contacts"`
	Conversations []Conversation `yaml:"conversations"`
	Reminders     []Reminder     `yaml:"reminders"`
	Templates     []Template     `yaml:"templates"`
}

// Account names the owner of the seeded rows. With Create set the account is
// registered when signing in fails.
type Account struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Create   bool   `yaml:"create"`
}

// Contact is a seeded contact; Ref lets other sections point at it.
type Contact struct {
	Ref     string         `yaml:"ref"`
	Name    string         `yaml:"name"`
	Phone   string         `yaml:"phone"`
	Email   string         `yaml:"email"`
	Company string         `yaml:"company"`
	Notes   string         `yaml:"notes"`
	Tags    []string       `yaml:"tags"`
	Status  contact.Status `yaml:"status"`
}

type Conversation struct {
	Contact  string    `yaml:"contact"`
	Unread   int       `yaml:"unread"`
	Messages []Message `yaml:"messages"`
}

type Message struct {
	Content  string                      `yaml:"content"`
	Outgoing bool                        `yaml:"outgoing"`
	Status   conversation.DeliveryStatus `yaml:"status"`
}

// Reminder is due DueIn after the seed runs unless DueDate is set.
type Reminder struct {
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	DueDate     time.Time         `yaml:"due_date"`
	DueIn       time.Duration     `yaml:"due_in"`
	Priority    reminder.Priority `yaml:"priority"`
	Completed   bool              `yaml:"completed"`
	Contact     string            `yaml:"contact"`
}

type Template struct {
	Name     string `yaml:"name"`
	Content  string `yaml:"content"`
	Category string `yaml:"category"`
}

// Summary counts inserted rows.
type Summary struct {
	UserID        string
	Contacts      int
	Conversations int
	Messages      int
	Reminders     int
	Templates     int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d contacts, %d conversations, %d messages, %d reminders, %d templates",
		s.Contacts, s.Conversations, s.Messages, s.Reminders, s.Templates)
}

// Load decodes a seed document. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// Validate checks every entry and every contact reference before anything is
// written.
func (f *File) Validate(ctx context.Context) error {
	if f.Account.Email == "" || f.Account.Password == "" {
		return fmt.Errorf("account email and password are required")
	}
	refs := make(map[string]bool, len(f.Contacts))
	for i, c := range f.Contacts {
		form := contact.Form{Name: c.Name, Phone: c.Phone, Email: c.Email, Company: c.Company, Notes: c.Notes, Status: c.Status}
		if err := form.Validate(ctx); err != nil {
			return fmt.Errorf("contacts[%d]: %w", i, err)
		}
		if c.Ref != "" {
			if refs[c.Ref] {
				return fmt.Errorf("contacts[%d]: duplicate ref %q", i, c.Ref)
			}
			refs[c.Ref] = true
		}
	}
	for i, c := range f.Conversations {
		if !refs[c.Contact] {
			return fmt.Errorf("conversations[%d]: unknown contact %q", i, c.Contact)
		}
		for j, m := range c.Messages {
			if m.Content == "" {
				return fmt.Errorf("conversations[%d].messages[%d]: content is required", i, j)
			}
		}
	}
	for i, r := range f.Reminders {
		if r.Contact != "" && !refs[r.Contact] {
			return fmt.Errorf("reminders[%d]: unknown contact %q", i, r.Contact)
		}
		form := reminder.Form{Title: r.Title, Description: r.Description, DueDate: r.due(time.Unix(1, 0)), Priority: r.Priority}
		if err := form.Validate(ctx); err != nil {
			return fmt.Errorf("reminders[%d]: %w", i, err)
		}
	}
	for i, t := range f.Templates {
		if err := (template.Form{Name: t.Name, Content: t.Content, Category: t.Category}).Validate(ctx); err != nil {
			return fmt.Errorf("templates[%d]: %w", i, err)
		}
	}
	return nil
}

func (r Reminder) due(now time.Time) time.Time {
	if !r.DueDate.IsZero() {
		return r.DueDate.UTC()
	}
	return now.Add(r.DueIn).UTC()
}

// Seeder writes seed documents through a backend connector, so the same file
// works against every backend mode.
type Seeder struct {
	conn backend.Connector
	log  zerolog.Logger
	now  func() time.Time
}

func New(conn backend.Connector, log zerolog.Logger) *Seeder {
	return &Seeder{conn: conn, log: log.With().Str("component", "seed").Logger(), now: time.Now}
}

// Apply validates f, signs in as its account and inserts every entry.
func (s *Seeder) Apply(ctx context.Context, f *File) (Summary, error) {
	if err := f.Validate(ctx); err != nil {
		return Summary{}, err
	}
	session, err := s.signIn(ctx, f.Account)
	if err != nil {
		return Summary{}, err
	}
	client := s.conn.Connect(session.AccessToken)
	uid := session.User.ID
	sum := Summary{UserID: uid}
	now := s.now().UTC()

	contactIDs := make(map[string]string, len(f.Contacts))
	for _, c := range f.Contacts {
		id := uuid.NewString()
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}
		row := map[string]any{
			"id": id, "user_id": uid, "name": c.Name, "phone": c.Phone, "email": c.Email,
			"company": c.Company, "notes": c.Notes, "tags": tags, "status": c.Status,
		}
		if err := client.Insert(ctx, backend.TableContacts, row); err != nil {
			return sum, fmt.Errorf("insert contact %q: %w", c.Name, err)
		}
		if c.Ref != "" {
			contactIDs[c.Ref] = id
		}
		sum.Contacts++
	}

	for _, c := range f.Conversations {
		id := uuid.NewString()
		row := map[string]any{
			"id": id, "user_id": uid, "contact_id": contactIDs[c.Contact],
			"unread_count": c.Unread, "last_message_at": now,
		}
		if err := client.Insert(ctx, backend.TableConversations, row); err != nil {
			return sum, fmt.Errorf("insert conversation with %q: %w", c.Contact, err)
		}
		sum.Conversations++
		for _, m := range c.Messages {
			msg := map[string]any{
				"user_id": uid, "conversation_id": id, "content": m.Content,
				"is_outgoing": m.Outgoing, "status": m.Status,
			}
			if err := client.Insert(ctx, backend.TableMessages, msg); err != nil {
				return sum, fmt.Errorf("insert message: %w", err)
			}
			sum.Messages++
		}
	}

	for _, r := range f.Reminders {
		status := reminder.StatusPending
		if r.Completed {
			status = reminder.StatusCompleted
		}
		row := map[string]any{
			"user_id": uid, "title": r.Title, "description": r.Description,
			"due_date": r.due(now), "priority": r.Priority, "status": status,
		}
		if r.Contact != "" {
			row["contact_id"] = contactIDs[r.Contact]
		}
		if err := client.Insert(ctx, backend.TableReminders, row); err != nil {
			return sum, fmt.Errorf("insert reminder %q: %w", r.Title, err)
		}
		sum.Reminders++
	}

	for _, t := range f.Templates {
		form := template.Form{Name: t.Name, Content: t.Content, Category: t.Category}.Normalized()
		row := map[string]any{"user_id": uid, "name": form.Name, "content": form.Content, "category": form.Category}
		if err := client.Insert(ctx, backend.TableTemplates, row); err != nil {
			return sum, fmt.Errorf("insert template %q: %w", t.Name, err)
		}
		sum.Templates++
	}

	s.log.Info().Str("user_id", uid).Str("summary", sum.String()).Msg("seed applied")
	return sum, nil
}

func (s *Seeder) signIn(ctx context.Context, acct Account) (*backend.Session, error) {
	session, err := s.conn.SignInWithPassword(ctx, acct.Email, acct.Password)
	if err == nil && session != nil {
		return session, nil
	}
	if !acct.Create {
		return nil, fmt.Errorf("sign in as %s: %w", acct.Email, err)
	}
	if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		return nil, fmt.Errorf("sign in as %s: %w", acct.Email, err)
	}
	session, err = s.conn.SignUp(ctx, acct.Email, acct.Password)
	if err != nil {
		return nil, fmt.Errorf("sign up %s: %w", acct.Email, err)
	}
	if session == nil {
		return nil, fmt.Errorf("sign up %s: account awaits email confirmation", acct.Email)
	}
	return session, nil
}
