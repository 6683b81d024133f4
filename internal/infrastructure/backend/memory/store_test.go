package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

func signUp(t *testing.T, s *Store, email string) (*backend.Session, backend.Client) {
	t.Helper()
	session, err := s.SignUp(context.Background(), email, "correct horse")
	require.NoError(t, err)
	return session, s.Connect(session.AccessToken)
}

func decode(t *testing.T, raw json.RawMessage) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	return rows
}

func TestAuthFlows(t *testing.T) {
	ctx := context.Background()
	s := New()

	session, c := signUp(t, s, "Ada@Example.com")
	assert.Equal(t, "ada@example.com", session.User.Email)

	got, err := c.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.User.ID, got.User.ID)

	_, err = s.SignUp(ctx, "ada@example.com", "other")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	_, err = s.SignInWithPassword(ctx, "ada@example.com", "wrong")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))

	second, err := s.SignInWithPassword(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, session.AccessToken, second.AccessToken)

	require.NoError(t, c.SignOut(ctx))
	got, err = c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	user, err := c.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	anon := s.Connect("")
	got, err = anon.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }), WithSessionTTL(time.Hour))
	_, c := signUp(t, s, "ada@example.com")

	got, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(2 * time.Hour)
	got, err = c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRowsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := New()
	ada, adaClient := signUp(t, s, "ada@example.com")
	_, graceClient := signUp(t, s, "grace@example.com")

	require.NoError(t, adaClient.Insert(ctx, backend.TableContacts, map[string]any{"user_id": ada.User.ID, "name": "Babbage"}))

	err := graceClient.Insert(ctx, backend.TableContacts, map[string]any{"user_id": ada.User.ID, "name": "Intruder"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	raw, err := graceClient.Select(ctx, backend.TableContacts, backend.Query{})
	require.NoError(t, err)
	assert.Empty(t, decode(t, raw))

	raw, err = adaClient.Select(ctx, backend.TableContacts, backend.Query{})
	require.NoError(t, err)
	rows := decode(t, raw)
	require.Len(t, rows, 1)
	id := rows[0]["id"].(string)

	require.NoError(t, graceClient.Delete(ctx, backend.TableContacts, id))
	require.NoError(t, graceClient.Update(ctx, backend.TableContacts, map[string]any{"name": "Hijacked"}, id))
	stored := s.Rows(backend.TableContacts)
	require.Len(t, stored, 1)
	assert.Equal(t, "Babbage", stored[0]["name"])

	n, err := graceClient.Count(ctx, backend.TableContacts)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = s.Connect("").Insert(ctx, backend.TableContacts, map[string]any{"name": "x"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))
}

func TestInsertRequiresNotNullColumns(t *testing.T) {
	s := New()
	ada, c := signUp(t, s, "ada@example.com")

	err := c.Insert(context.Background(), backend.TableContacts, map[string]any{"user_id": ada.User.ID, "name": "  "})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestSelectOrderFilterAndEmbed(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { clock = clock.Add(time.Minute); return clock }))
	ada, c := signUp(t, s, "ada@example.com")
	uid := ada.User.ID

	require.NoError(t, c.Insert(ctx, backend.TableContacts, map[string]any{"id": "c1", "user_id": uid, "name": "Babbage", "phone": "+44"}))
	require.NoError(t, c.Insert(ctx, backend.TableConversations, map[string]any{"id": "v1", "user_id": uid, "contact_id": "c1", "last_message_at": "2024-01-01T00:00:00Z"}))
	require.NoError(t, c.Insert(ctx, backend.TableConversations, map[string]any{"id": "v2", "user_id": uid, "contact_id": "missing"}))

	raw, err := c.Select(ctx, backend.TableConversations, backend.Query{
		Embed: &backend.Embed{Alias: "contact", Table: backend.TableContacts, ForeignKey: "contact_id", Columns: []string{"name", "phone"}},
		Order: &backend.Order{Column: "last_message_at"},
	})
	require.NoError(t, err)
	rows := decode(t, raw)
	require.Len(t, rows, 2)
	assert.Equal(t, "v2", rows[0]["id"], "defaulted last_message_at is newer")
	assert.Nil(t, rows[0]["contact"])
	assert.Equal(t, map[string]any{"name": "Babbage", "phone": "+44"}, rows[1]["contact"])
	assert.EqualValues(t, 0, rows[1]["unread_count"])

	for _, content := range []string{"first", "second"} {
		require.NoError(t, c.Insert(ctx, backend.TableMessages, map[string]any{"user_id": uid, "conversation_id": "v1", "content": content}))
	}
	require.NoError(t, c.Insert(ctx, backend.TableMessages, map[string]any{"user_id": uid, "conversation_id": "v2", "content": "other"}))

	raw, err = c.Select(ctx, backend.TableMessages, backend.Query{
		Order:   &backend.Order{Column: "created_at", Ascending: true},
		Filters: []backend.Filter{backend.Eq("conversation_id", "v1")},
	})
	require.NoError(t, err)
	rows = decode(t, raw)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0]["content"])
	assert.Equal(t, "second", rows[1]["content"])

	n, err := c.Count(ctx, backend.TableMessages, backend.Eq("conversation_id", "v2"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestInterceptor(t *testing.T) {
	ctx := context.Background()
	s := New()
	ada, c := signUp(t, s, "ada@example.com")

	boom := errors.New("network down")
	s.SetInterceptor(func(_ context.Context, op Op, table backend.Table) error {
		if op == OpInsert && table == backend.TableContacts {
			return boom
		}
		return nil
	})
	err := c.Insert(ctx, backend.TableContacts, map[string]any{"user_id": ada.User.ID, "name": "Babbage"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Rows(backend.TableContacts))

	s.SetInterceptor(nil)
	require.NoError(t, c.Insert(ctx, backend.TableContacts, map[string]any{"user_id": ada.User.ID, "name": "Babbage"}))
}

func TestUpdateCannotChangeOwnership(t *testing.T) {
	ctx := context.Background()
	s := New()
	ada, c := signUp(t, s, "ada@example.com")
	require.NoError(t, c.Insert(ctx, backend.TableTemplates, map[string]any{"id": "t1", "user_id": ada.User.ID, "name": "Hi", "content": "Hello"}))

	require.NoError(t, c.Update(ctx, backend.TableTemplates, map[string]any{"id": "t9", "user_id": "someone", "name": "Hey"}, "t1"))
	rows := s.Rows(backend.TableTemplates)
	require.Len(t, rows, 1)
	assert.Equal(t, "t1", rows[0]["id"])
	assert.Equal(t, ada.User.ID, rows[0]["user_id"])
	assert.Equal(t, "Hey", rows[0]["name"])
}
