// Package viewstate keeps page controllers alive between requests so a
// visitor's search term, selection, open dialog and compose buffer survive
// navigation.
package viewstate

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// SessionKey derives the cache key of an access token. The token itself is
// never used as a key.
func SessionKey(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

type session struct {
	mu    sync.Mutex
	pages map[string]any
}

// Store holds the page controllers of the most recently active sessions.
type Store struct {
	sessions *lru.Cache
	mu       sync.Mutex
}

// New creates a store bounded to maxSessions.
func New(maxSessions int) (*Store, error) {
	sessions, err := lru.New(maxSessions)
	if err != nil {
		return nil, err
	}
	return &Store{sessions: sessions}, nil
}

func (s *Store) session(key string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.sessions.Get(key); ok {
		return v.(*session)
	}
	sess := &session{pages: make(map[string]any)}
	s.sessions.Add(key, sess)
	return sess
}

// Page returns the controller cached under (key, name), building it with
// build on first use. created reports whether build ran.
func Page[T any](s *Store, key, name string, build func() T) (page T, created bool) {
	sess := s.session(key)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if v, ok := sess.pages[name]; ok {
		if typed, ok := v.(T); ok {
			return typed, false
		}
	}
	page = build()
	sess.pages[name] = page
	return page, true
}

// Forget drops every controller of key.
func (s *Store) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(key)
}

// Len reports how many sessions are cached.
func (s *Store) Len() int {
	return s.sessions.Len()
}
