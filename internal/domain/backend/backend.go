// Package backend describes the remote data platform the CRM pages are built on:
// an authentication service plus row-level-secured tables.
package backend

import (
	"context"
	"encoding/json"
	"time"
)

// Table names a remote table.
type Table string

const (
	TableContacts      Table = "contacts"
	TableConversations Table = "conversations"
	TableMessages      Table = "messages"
	TableReminders     Table = "reminders"
	TableTemplates     Table = "templates"
)

// Tables lists every table the application reads or writes.
var Tables = []Table{TableContacts, TableConversations, TableMessages, TableReminders, TableTemplates}

// User is the authenticated identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is proof of authenticated identity for the duration of a visit.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Auth is the session side of a backend client. A nil result with a nil error
// means the caller is not signed in.
type Auth interface {
	GetSession(ctx context.Context) (*Session, error)
	GetUser(ctx context.Context) (*User, error)
	SignOut(ctx context.Context) error
}

// Store is table access scoped to the signed-in user.
//
// Select returns the matching rows as a JSON array, each row shaped like the
// table columns plus the optional embedded relation.
type Store interface {
	Select(ctx context.Context, table Table, q Query) (json.RawMessage, error)
	Insert(ctx context.Context, table Table, row any) error
	Update(ctx context.Context, table Table, patch any, id string) error
	Delete(ctx context.Context, table Table, id string) error
	Count(ctx context.Context, table Table, filters ...Filter) (int64, error)
}

// Client is a backend handle bound to one access token.
type Client interface {
	Auth
	Store
}

// Connector opens clients and performs the password flows of the auth route.
type Connector interface {
	// Connect binds a client to an access token; an empty token yields an
	// anonymous client.
	Connect(accessToken string) Client
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp returns a nil session when the platform requires email confirmation.
	SignUp(ctx context.Context, email, password string) (*Session, error)
}
