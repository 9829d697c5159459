package services

import (
	"slices"
	"sync"
)

// SessionRegistry maps (user, application) to the token currently issued for
// it. A user stays registered while at least one application session is
// live.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]map[string]string)}
}

func (r *SessionRegistry) Put(userID, app, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps, ok := r.sessions[userID]
	if !ok {
		apps = make(map[string]string)
		r.sessions[userID] = apps
	}
	apps[app] = token
}

func (r *SessionRegistry) Get(userID, app string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.sessions[userID][app]
	return token, ok
}

// Current reports whether token is the live token for (userID, app).
func (r *SessionRegistry) Current(userID, app, token string) bool {
	live, ok := r.Get(userID, app)
	return ok && live == token
}

// Remove ends one application session and returns how many remain for the
// user. The user entry is dropped with its last application.
func (r *SessionRegistry) Remove(userID, app string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps, ok := r.sessions[userID]
	if !ok {
		return 0
	}
	delete(apps, app)
	if len(apps) == 0 {
		delete(r.sessions, userID)
	}
	return len(apps)
}

func (r *SessionRegistry) RemoveUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

func (r *SessionRegistry) Applications(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	apps := make([]string, 0, len(r.sessions[userID]))
	for app := range r.sessions[userID] {
		apps = append(apps, app)
	}
	slices.Sort(apps)
	return apps
}

func (r *SessionRegistry) Users() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
