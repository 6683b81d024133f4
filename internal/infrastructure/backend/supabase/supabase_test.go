package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conn, err := New(context.Background(), Config{URL: srv.URL, AnonKey: "anon"}, zerolog.Nop())
	require.NoError(t, err)
	return conn
}

func TestSignInWithPassword(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","expires_at":1700000000,"user":{"id":"u1","email":"ada@example.com"}}`))
	})

	session, err := conn.SignInWithPassword(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, int64(1700000000), session.ExpiresAt.Unix())

	_, err = conn.SignInWithPassword(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestSignUpPendingConfirmation(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"u1","email":"ada@example.com","confirmation_sent_at":"2024-01-01T00:00:00Z"}`))
	})

	session, err := conn.SignUp(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestGetSessionWithoutJWKS(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"ada@example.com"}`))
	})
	ctx := context.Background()

	session, err := conn.Connect("good").GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.User.ID)

	session, err = conn.Connect("stale").GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	session, err = conn.Connect("").GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSelectBuildsPostgRESTQuery(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/conversations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "*,contact:contacts(name,phone)", q.Get("select"))
		assert.Equal(t, "last_message_at.desc", q.Get("order"))
		assert.Equal(t, "eq.c1", q.Get("contact_id"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"v1"}]`))
	})

	raw, err := conn.Connect("tok").Select(context.Background(), backend.TableConversations, backend.Query{
		Embed:   &backend.Embed{Alias: "contact", Table: backend.TableContacts, ForeignKey: "contact_id", Columns: []string{"name", "phone"}},
		Order:   &backend.Order{Column: "last_message_at"},
		Filters: []backend.Filter{backend.Eq("contact_id", "c1")},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"v1"}]`, string(raw))
}

func TestMutationsTargetRowByID(t *testing.T) {
	var seen []string
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		if r.Method != http.MethodDelete {
			assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		}
		w.WriteHeader(http.StatusNoContent)
	})
	c := conn.Connect("tok")
	ctx := context.Background()

	require.NoError(t, c.Insert(ctx, backend.TableTemplates, map[string]any{"name": "Hi"}))
	require.NoError(t, c.Update(ctx, backend.TableTemplates, map[string]any{"name": "Hey"}, "t1"))
	require.NoError(t, c.Delete(ctx, backend.TableTemplates, "t1"))

	assert.Equal(t, []string{
		"POST /rest/v1/templates?",
		"PATCH /rest/v1/templates?id=eq.t1",
		"DELETE /rest/v1/templates?id=eq.t1",
	}, seen)
}

func TestCountAndErrors(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/reminders":
			assert.Equal(t, http.MethodHead, r.Method)
			assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
			assert.Equal(t, "eq.pending", r.URL.Query().Get("status"))
			w.Header().Set("Content-Range", "*/7")
		case "/rest/v1/contacts":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key"}`))
		}
	})
	c := conn.Connect("tok")
	ctx := context.Background()

	n, err := c.Count(ctx, backend.TableReminders, backend.Eq("status", "pending"))
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	err = c.Insert(ctx, backend.TableContacts, map[string]any{"name": "x"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		header string
		want   int64
		ok     bool
	}{
		{"0-9/42", 42, true},
		{"*/0", 0, true},
		{"0-9/*", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			n, ok := parseContentRange(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}
