// Package memory is a process-local backend used for development and tests.
// It keeps the same ownership rules as the hosted platform: every row belongs to
// the user that inserted it and is invisible to everyone else.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Op names a backend operation for interceptors.
type Op string

const (
	OpGetSession Op = "get_session"
	OpGetUser    Op = "get_user"
	OpSignOut    Op = "sign_out"
	OpSignIn     Op = "sign_in"
	OpSignUp     Op = "sign_up"
	OpSelect     Op = "select"
	OpInsert     Op = "insert"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpCount      Op = "count"
)

// Interceptor runs before every operation; a non-nil error fails the operation.
// Tests use it to inject failures or to hold a call in flight.
type Interceptor func(ctx context.Context, op Op, table backend.Table) error

type row = map[string]any

type account struct {
	user         backend.User
	passwordHash []byte
}

// required columns per table, mirroring NOT NULL constraints.
var requiredColumns = map[backend.Table][]string{
	backend.TableContacts:      {"name"},
	backend.TableConversations: {"contact_id"},
	backend.TableMessages:      {"conversation_id", "content"},
	backend.TableReminders:     {"title", "due_date"},
	backend.TableTemplates:     {"name", "content"},
}

// Store holds users, sessions and table rows.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account
	sessions map[string]backend.Session
	tables   map[backend.Table][]row

	now        func() time.Time
	sessionTTL time.Duration

	hookMu      sync.RWMutex
	interceptor Interceptor
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSessionTTL sets how long issued sessions stay valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Store) { s.sessionTTL = ttl }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		accounts:   make(map[string]*account),
		sessions:   make(map[string]backend.Session),
		tables:     make(map[backend.Table][]row),
		now:        time.Now,
		sessionTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ backend.Connector = (*Store)(nil)

// SetInterceptor installs fn; nil removes it.
func (s *Store) SetInterceptor(fn Interceptor) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.interceptor = fn
}

func (s *Store) intercept(ctx context.Context, op Op, table backend.Table) error {
	s.hookMu.RLock()
	fn := s.interceptor
	s.hookMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, op, table)
}

// Connect binds a client to accessToken.
func (s *Store) Connect(accessToken string) backend.Client {
	return &client{store: s, token: accessToken}
}

// SignUp registers an account and opens a session for it.
func (s *Store) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	if err := s.intercept(ctx, OpSignUp, ""); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "email and password are required", nil, "6a0e2d41-93b5-4c7e-8f21-0d4b5a6c7e01")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "hash password", err, "6a0e2d41-93b5-4c7e-8f21-0d4b5a6c7e02")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeConflict, "user already registered", nil, "6a0e2d41-93b5-4c7e-8f21-0d4b5a6c7e03")
	}
	acc := &account{user: backend.User{ID: uuid.NewString(), Email: email}, passwordHash: hash}
	s.accounts[email] = acc
	return s.openSessionLocked(acc.user), nil
}

// SignInWithPassword opens a session for an existing account.
func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	if err := s.intercept(ctx, OpSignIn, ""); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnauthorized, "invalid login credentials", nil, "6a0e2d41-93b5-4c7e-8f21-0d4b5a6c7e04")
	}
	return s.openSessionLocked(acc.user), nil
}

func (s *Store) openSessionLocked(user backend.User) *backend.Session {
	session := backend.Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    s.now().Add(s.sessionTTL).UTC(),
		User:         user,
	}
	s.sessions[session.AccessToken] = session
	return &session
}

func (s *Store) session(token string) *backend.Session {
	if token == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok || !s.now().Before(session.ExpiresAt) {
		return nil
	}
	return &session
}

// Rows returns a copy of every row in table regardless of owner.
func (s *Store) Rows(table backend.Table) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]any, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		out = append(out, cloneRow(r))
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneRow(r row) row {
	out := make(row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func toRow(v any) (row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var r row
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("row must be a JSON object")
	}
	return r, nil
}

func matches(r row, userID string, filters []backend.Filter) bool {
	if r["user_id"] != userID {
		return false
	}
	for _, f := range filters {
		v, ok := r[f.Column]
		if !ok || v == nil || fmt.Sprint(v) != f.Value {
			return false
		}
	}
	return true
}

func sortRows(rows []row, order *backend.Order) {
	if order == nil {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i][order.Column], rows[j][order.Column])
		if order.Ascending {
			return c < 0
		}
		return c > 0
	})
}

// compare orders timestamps chronologically, numbers numerically and the rest
// lexically; nulls sort first.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			at, aerr := time.Parse(time.RFC3339Nano, as)
			bt, berr := time.Parse(time.RFC3339Nano, bs)
			if aerr == nil && berr == nil {
				return at.Compare(bt)
			}
			return strings.Compare(as, bs)
		}
	}
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func project(r row, columns []string) row {
	if len(columns) == 0 {
		return cloneRow(r)
	}
	out := make(row, len(columns))
	for _, c := range columns {
		out[c] = r[c]
	}
	return out
}
