package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"market-analyzer/src/metrics"

	"github.com/google/uuid"
)

type session struct {
	userID  int64
	expires time.Time
}

// SessionStore keeps login sessions in memory. Tokens handed to clients are
// the session id followed by an HMAC of it, so forged ids are rejected
// without a lookup.
type SessionStore struct {
	TTL    time.Duration
	Now    func() time.Time
	secret []byte

	mu       sync.Mutex
	sessions map[string]session
}

// -----------------------------------------------------------------------------

func NewSessionStore(ttl time.Duration, secret string) *SessionStore {
	if secret == "" {
		secret = uuid.NewString()
	}
	return &SessionStore{
		TTL:      ttl,
		Now:      time.Now,
		secret:   []byte(secret),
		sessions: make(map[string]session),
	}
}

// -----------------------------------------------------------------------------

// Create opens a session for userID and returns its signed token.
func (s *SessionStore) Create(userID int64) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = session{userID: userID, expires: s.Now().Add(s.TTL)}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	return id + "." + s.sign(id)
}

// -----------------------------------------------------------------------------

// Lookup returns the user of a live session and extends it by the TTL.
func (s *SessionStore) Lookup(token string) (int64, bool) {
	id, ok := s.verify(token)
	if !ok {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, false
	}
	now := s.Now()
	if !now.Before(sess.expires) {
		delete(s.sessions, id)
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
		return 0, false
	}
	sess.expires = now.Add(s.TTL)
	s.sessions[id] = sess
	return sess.userID, true
}

// -----------------------------------------------------------------------------

// Delete ends the session behind token, if any.
func (s *SessionStore) Delete(token string) {
	id, ok := s.verify(token)
	if !ok {
		return
	}

	s.mu.Lock()
	delete(s.sessions, id)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Purge removes expired sessions and returns how many were dropped.
func (s *SessionStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.expires) {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return removed
}

// -----------------------------------------------------------------------------

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// -----------------------------------------------------------------------------

func (s *SessionStore) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *SessionStore) verify(token string) (string, bool) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(id))) {
		return "", false
	}
	return id, true
}
