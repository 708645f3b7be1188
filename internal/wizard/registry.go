package wizard

import "sync"

// Registry holds the in-flight sessions, one per user per guild. A user
// starting a new wizard replaces their previous session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func key(guildID, userID string) string {
	return guildID + ":" + userID
}

func (r *Registry) Put(guildID, userID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key(guildID, userID)] = s
}

func (r *Registry) Get(guildID, userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key(guildID, userID)]
	return s, ok
}

func (r *Registry) Remove(guildID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key(guildID, userID))
}
