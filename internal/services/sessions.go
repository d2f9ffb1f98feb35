package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sessionItem struct {
	adapter  *Adapter
	lastSeen time.Time
}

// SessionStore holds one Adapter per presentation session. Sessions expire
// after idleTimeout without access; the oldest is evicted when full.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*sessionItem
	newAdapter  func() *Adapter
	logger      *zap.Logger
	idleTimeout time.Duration
	maxSize     int
	now         func() time.Time
}

func NewSessionStore(newAdapter func() *Adapter, idleTimeout time.Duration, maxSize int, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*sessionItem),
		newAdapter:  newAdapter,
		logger:      logger,
		idleTimeout: idleTimeout,
		maxSize:     maxSize,
		now:         time.Now,
	}
}

// Create starts a new session and returns its id.
func (s *SessionStore) Create() (string, *Adapter) {
	id := uuid.NewString()
	adapter := s.newAdapter()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Evict if store is too large
	if s.maxSize > 0 && len(s.sessions) >= s.maxSize {
		s.evictOldest()
	}

	s.sessions[id] = &sessionItem{
		adapter:  adapter,
		lastSeen: s.now(),
	}

	s.logger.Debug("Session created",
		zap.String("session_id", id),
		zap.Int("sessions", len(s.sessions)))

	return id, adapter
}

// Get returns the session's adapter and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Adapter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.sessions[id]
	if !exists {
		return nil, false
	}

	now := s.now()
	if s.expired(item, now) {
		delete(s.sessions, id)
		return nil, false
	}

	item.lastSeen = now
	return item.adapter, true
}

func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Sweep drops idle sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expiredCount := 0

	for id, item := range s.sessions {
		if s.expired(item, now) {
			delete(s.sessions, id)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		s.logger.Debug("Cleaned expired sessions",
			zap.Int("count", expiredCount))
	}

	return expiredCount
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"sessions":     len(s.sessions),
		"max_size":     s.maxSize,
		"idle_timeout": s.idleTimeout.String(),
	}
}

func (s *SessionStore) expired(item *sessionItem, now time.Time) bool {
	return s.idleTimeout > 0 && now.Sub(item.lastSeen) > s.idleTimeout
}

func (s *SessionStore) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range s.sessions {
		if oldestKey == "" || item.lastSeen.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.lastSeen
		}
	}

	if oldestKey != "" {
		delete(s.sessions, oldestKey)
		s.logger.Debug("Evicted oldest session",
			zap.String("session_id", oldestKey))
	}
}
