package dbschema

import (
	"time"

	"gorm.io/datatypes"
)

// The JSON tags match the column names so rows serialize exactly like the
// hosted REST API returns them.

// Contact is a row of crm.contacts.
type Contact struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"column:name;size:200;not null" json:"name"`
	Phone     *string        `gorm:"column:phone;size:50" json:"phone"`
	Email     *string        `gorm:"column:email;size:320" json:"email"`
	Company   *string        `gorm:"column:company;size:200" json:"company"`
	Notes     *string        `gorm:"column:notes;type:text" json:"notes"`
	Tags      datatypes.JSON `gorm:"column:tags;type:jsonb;not null;default:'[]'" json:"tags"`
	Status    string         `gorm:"column:status;size:20;not null;default:lead" json:"status"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (Contact) TableName() string { return "crm.contacts" }

// Conversation is a row of crm.conversations.
type Conversation struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	ContactID     string    `gorm:"column:contact_id;type:uuid;not null" json:"contact_id"`
	LastMessageAt time.Time `gorm:"column:last_message_at;not null;default:now()" json:"last_message_at"`
	UnreadCount   int       `gorm:"column:unread_count;not null;default:0" json:"unread_count"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	Contact       *Contact  `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
}

func (Conversation) TableName() string { return "crm.conversations" }

// Message is a row of crm.messages.
type Message struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	ConversationID string    `gorm:"column:conversation_id;type:uuid;not null;index" json:"conversation_id"`
	Content        string    `gorm:"column:content;type:text;not null" json:"content"`
	IsOutgoing     bool      `gorm:"column:is_outgoing;not null" json:"is_outgoing"`
	Status         string    `gorm:"column:status;size:20;not null;default:sent" json:"status"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (Message) TableName() string { return "crm.messages" }

// Reminder is a row of crm.reminders.
type Reminder struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	DueDate     time.Time `gorm:"column:due_date;not null" json:"due_date"`
	Status      string    `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	Priority    string    `gorm:"column:priority;size:20;not null;default:medium" json:"priority"`
	ContactID   *string   `gorm:"column:contact_id;type:uuid" json:"contact_id"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	Contact     *Contact  `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
}

func (Reminder) TableName() string { return "crm.reminders" }

// Template is a row of crm.templates.
type Template struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"column:name;size:200;not null" json:"name"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	Category  string    `gorm:"column:category;size:100;not null;default:general" json:"category"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (Template) TableName() string { return "crm.templates" }
