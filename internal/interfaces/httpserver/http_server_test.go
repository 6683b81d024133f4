package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/application/guard"
	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/backend/memory"
	"github.com/janhq/jan-crm/internal/infrastructure/notifier"
	"github.com/janhq/jan-crm/internal/infrastructure/viewstate"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/handlers"
)

type testServer struct {
	t      *testing.T
	store  *memory.Store
	engine http.Handler
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	cfg := &config.Config{
		ServiceName:     "jan-crm-test",
		Environment:     "test",
		BackendMode:     config.BackendMemory,
		AuthRoute:       "/auth",
		SessionCookie:   "crm_session",
		FlashCapacity:   10,
		ViewCacheSize:   16,
		ShutdownTimeout: time.Second,
	}
	store := memory.New()
	flash, err := notifier.NewMemoryFlash(cfg.ViewCacheSize, cfg.FlashCapacity)
	require.NoError(t, err)
	views, err := viewstate.New(cfg.ViewCacheSize)
	require.NoError(t, err)

	ws := handlers.NewWorkspace(store, views, notifier.New(flash, notifier.NewHub(nil, log), log), guard.New(cfg.AuthRoute, log), log)
	provider := handlers.NewProvider(ws, handlers.CookieConfig{Name: cfg.SessionCookie})
	srv := New(cfg, log, provider, func(context.Context) error { return nil })
	return &testServer{t: t, store: store, engine: srv.Handler()}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) signUp(email string) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/sign-up", `{"email":"`+email+`","password":"correct horse"}`)
	require.Equal(s.t, http.StatusSeeOther, w.Code)
	assert.Equal(s.t, handlers.DashboardRoute, w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		if c.Name == "crm_session" {
			s.cookie = c
		}
	}
	require.NotNil(s.t, s.cookie)
	assert.True(s.t, s.cookie.HttpOnly)
	assert.Equal(s.t, http.SameSiteLaxMode, s.cookie.SameSite)
}

type pageBody struct {
	Result        string          `json:"result"`
	View          json.RawMessage `json:"view"`
	Notifications []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
	} `json:"notifications"`
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) pageBody {
	t.Helper()
	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestCoreRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jan-crm-test")

	w = s.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), config.BackendMemory)

	w = s.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestPagesRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/dashboard", "/contacts", "/conversations", "/follow-ups", "/templates"} {
		t.Run(path, func(t *testing.T) {
			w := s.do(http.MethodGet, path, "")
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/auth", w.Header().Get("Location"))
		})
	}

	w := s.do(http.MethodPost, "/contacts", `{"name":"Babbage"}`)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, s.store.Rows(backend.TableContacts))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/auth/sign-in", `{"email":"not-an-email","password":"correct horse"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.signUp("ada@example.com")

	w = s.do(http.MethodGet, "/auth", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, handlers.DashboardRoute, w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Stats struct {
			Contacts int64 `json:"contacts"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(decodePage(t, w).View, &dash))
	assert.Zero(t, dash.Stats.Contacts)

	w = s.do(http.MethodPost, "/auth/sign-out", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, w.Code, "revoked token no longer passes the guard")

	s.cookie = nil
	w = s.do(http.MethodPost, "/auth/sign-in", `{"email":"ada@example.com","password":"wrong password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOutFailureKeepsSession(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	s.store.SetInterceptor(func(_ context.Context, op memory.Op, _ backend.Table) error {
		if op == memory.OpSignOut {
			return errors.New("network down")
		}
		return nil
	})
	w := s.do(http.MethodPost, "/auth/sign-out", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decodePage(t, w)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "Failed to log out", body.Notifications[0].Description)

	s.store.SetInterceptor(nil)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/dashboard", "").Code)
}

func TestContactsCRUD(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	w := s.do(http.MethodPost, "/contacts", `{"name":"Charles Babbage","company":"Difference Engines","status":"customer"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodePage(t, w)
	assert.Equal(t, "applied", body.Result)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "Contact created successfully", body.Notifications[0].Description)

	rows := s.store.Rows(backend.TableContacts)
	require.Len(t, rows, 1)
	id := rows[0]["id"].(string)

	w = s.do(http.MethodPost, "/contacts", `{"name":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid", decodePage(t, w).Result)

	w = s.do(http.MethodPut, "/contacts/"+id, `{"phone":"+44 20 7946 0000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows = s.store.Rows(backend.TableContacts)
	assert.Equal(t, "Charles Babbage", rows[0]["name"], "omitted fields keep their values")
	assert.Equal(t, "+44 20 7946 0000", rows[0]["phone"])

	w = s.do(http.MethodPut, "/contacts/missing", `{"name":"Nobody"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/contacts?search=ENGINES", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Search string `json:"search"`
		Items  []struct {
			Name  string `json:"name"`
			Badge struct {
				Label string `json:"label"`
			} `json:"badge"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(decodePage(t, w).View, &view))
	assert.Equal(t, "ENGINES", view.Search)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Customer", view.Items[0].Badge.Label)

	s.store.SetInterceptor(func(_ context.Context, op memory.Op, table backend.Table) error {
		if op == memory.OpDelete && table == backend.TableContacts {
			return errors.New("network down")
		}
		return nil
	})
	w = s.do(http.MethodDelete, "/contacts/"+id, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "failed", decodePage(t, w).Result)

	s.store.SetInterceptor(nil)
	w = s.do(http.MethodDelete, "/contacts/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Contact deleted", decodePage(t, w).Notifications[0].Description)
	assert.Empty(t, s.store.Rows(backend.TableContacts))
}

func TestEditOverlappingCreateUpdatesTarget(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	w := s.do(http.MethodPost, "/contacts", `{"name":"Original"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := s.store.Rows(backend.TableContacts)[0]["id"].(string)

	pr, pw := io.Pipe()
	req := httptest.NewRequest(http.MethodPut, "/contacts/"+id, pr)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(s.cookie)
	edit := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.engine.ServeHTTP(edit, req)
	}()

	w = s.do(http.MethodPost, "/contacts", `{"name":"Other"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, err := pw.Write([]byte(`{"name":"Renamed"}`))
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	<-done
	require.Equal(t, http.StatusOK, edit.Code, edit.Body.String())

	names := map[string]string{}
	for _, row := range s.store.Rows(backend.TableContacts) {
		names[row["id"].(string)] = row["name"].(string)
	}
	assert.Len(t, names, 2, "edit must not create a row")
	assert.Equal(t, "Renamed", names[id])
}

func TestMalformedCreateKeepsDialog(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	s.store.SetInterceptor(func(_ context.Context, op memory.Op, _ backend.Table) error {
		if op == memory.OpInsert {
			return errors.New("network down")
		}
		return nil
	})
	w := s.do(http.MethodPost, "/contacts", `{"name":"Draft"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	s.store.SetInterceptor(nil)

	w = s.do(http.MethodPost, "/contacts", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/contacts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Dialog struct {
			Form       struct{ Name string } `json:"form"`
			DialogOpen bool                  `json:"dialog_open"`
		} `json:"dialog"`
	}
	require.NoError(t, json.Unmarshal(decodePage(t, w).View, &view))
	assert.True(t, view.Dialog.DialogOpen)
	assert.Equal(t, "Draft", view.Dialog.Form.Name)
}

func TestSignedOutRequestsKeepViewState(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	w := s.do(http.MethodGet, "/contacts?search=acme", "")
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 16; i++ {
		req := httptest.NewRequest(http.MethodGet, "/contacts?search=x", nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer bogus-%d", i))
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}

	w = s.do(http.MethodGet, "/contacts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Search string `json:"search"`
	}
	require.NoError(t, json.Unmarshal(decodePage(t, w).View, &view))
	assert.Equal(t, "acme", view.Search)
}

func TestFollowUpComplete(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	w := s.do(http.MethodPost, "/follow-ups", `{"title":"Call back","due_date":"2030-01-01T09:00:00Z","priority":"high"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows := s.store.Rows(backend.TableReminders)
	require.Len(t, rows, 1)
	assert.Equal(t, "pending", rows[0]["status"])

	w = s.do(http.MethodPost, "/follow-ups/"+rows[0]["id"].(string)+"/complete", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Reminder marked as completed", decodePage(t, w).Notifications[0].Description)
	assert.Equal(t, "completed", s.store.Rows(backend.TableReminders)[0]["status"])
}

func TestTemplateCopy(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	w := s.do(http.MethodPost, "/templates", `{"name":"Welcome","content":"Hi {name}, thanks for reaching out!"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows := s.store.Rows(backend.TableTemplates)
	require.Len(t, rows, 1)
	assert.Equal(t, "general", rows[0]["category"])

	w = s.do(http.MethodPost, "/templates/"+rows[0]["id"].(string)+"/copy", "")
	require.Equal(t, http.StatusOK, w.Code)
	var copied struct {
		Content       string `json:"content"`
		Notifications []struct {
			Title string `json:"title"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &copied))
	assert.Equal(t, "Hi {name}, thanks for reaching out!", copied.Content)
	require.Len(t, copied.Notifications, 1)
	assert.Equal(t, "Copied!", copied.Notifications[0].Title)

	w = s.do(http.MethodPost, "/templates/missing/copy", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConversationSend(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")
	ctx := context.Background()

	session, err := s.store.SignInWithPassword(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	client := s.store.Connect(session.AccessToken)
	uid := session.User.ID
	require.NoError(t, client.Insert(ctx, backend.TableContacts, map[string]any{"id": "c1", "user_id": uid, "name": "Grace Hopper"}))
	require.NoError(t, client.Insert(ctx, backend.TableConversations, map[string]any{"id": "v1", "user_id": uid, "contact_id": "c1", "last_message_at": "2024-01-01T00:00:00Z"}))

	w := s.do(http.MethodGet, "/conversations/unknown/messages", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/conversations/v1/messages", `{"content":"  "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "skipped", decodePage(t, w).Result)
	assert.Empty(t, s.store.Rows(backend.TableMessages))

	w = s.do(http.MethodPost, "/conversations/v1/messages", `{"content":"Thanks, talk soon!"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "applied", decodePage(t, w).Result)
	messages := s.store.Rows(backend.TableMessages)
	require.Len(t, messages, 1)
	assert.Equal(t, "Thanks, talk soon!", messages[0]["content"])
	assert.Equal(t, true, messages[0]["is_outgoing"])

	s.store.SetInterceptor(func(_ context.Context, op memory.Op, table backend.Table) error {
		if op == memory.OpInsert && table == backend.TableMessages {
			return errors.New("network down")
		}
		return nil
	})
	w = s.do(http.MethodPost, "/conversations/v1/messages", `{"content":"again"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to send message", decodePage(t, w).Notifications[0].Description)
}

func TestNotificationsDrain(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com")

	s.store.SetInterceptor(func(_ context.Context, op memory.Op, table backend.Table) error {
		if op == memory.OpSelect && table == backend.TableTemplates {
			return errors.New("network down")
		}
		return nil
	})
	w := s.do(http.MethodGet, "/templates", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodePage(t, w).Notifications, 1)

	w = s.do(http.MethodGet, "/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	s.cookie = nil
	w = s.do(http.MethodGet, "/ws/notifications", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
