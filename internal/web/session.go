package web

import (
	"sync"
	"time"

	"farmops/internal/api"
	"farmops/internal/dashboard"
	"farmops/internal/model"

	"github.com/google/uuid"
)

const sessionCookie = "farmops_session"

// Session is one signed-in operator. Each session owns its own desks, so
// two operators never see each other's filters or pages.
type Session struct {
	ID         string
	Principal  model.Principal
	Client     *api.Client
	Complaints *dashboard.ComplaintDesk
	Payouts    *dashboard.PayoutDesk
	USSD       *dashboard.USSDDesk
	Roster     *dashboard.Roster

	mu      sync.Mutex
	flash   string
	expires time.Time
}

// Flash queues a one-shot banner for the next rendered page.
func (s *Session) Flash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

// TakeFlash returns and clears the queued banner.
func (s *Session) TakeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

// SessionStore is the in-memory session registry. Sessions expire after
// ttl of inactivity.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Add registers sess under a fresh id and returns it.
func (st *SessionStore) Add(sess *Session) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweep()
	sess.ID = uuid.NewString()
	sess.expires = st.now().Add(st.ttl)
	st.sessions[sess.ID] = sess
	return sess
}

// Get returns the live session for id and extends its expiry.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if now.After(sess.expires) {
		delete(st.sessions, id)
		return nil, false
	}
	sess.expires = now.Add(st.ttl)
	return sess, true
}

// Delete drops the session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of stored sessions, expired or not.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// sweep drops expired sessions. Caller holds st.mu.
func (st *SessionStore) sweep() {
	now := st.now()
	for id, sess := range st.sessions {
		if now.After(sess.expires) {
			delete(st.sessions, id)
		}
	}
}
