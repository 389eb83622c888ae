package hub

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/core"
	"github.com/collabhub-in/collabhub/internal/domain"
)

type sessionEntry struct {
	conn   core.ClientConn
	joined map[domain.RoomKey]struct{}

	// Last completed chat join, remembered for the departure
	// announcement on disconnect.
	chatRoom string
	chatName string
}

// Registry tracks live sessions: transport endpoint, joined rooms,
// and the chat identity used to announce departure. Sessions hold
// room keys only; all room state stays in State.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

// Bind registers a freshly opened connection.
func (r *Registry) Bind(sid core.SessionID, conn core.ClientConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		conn:   conn,
		joined: make(map[domain.RoomKey]struct{}),
	}
	log.Info().Str("module", "hub.registry").Str("sid", string(sid)).Msg("bound session")
}

// Conn returns the session's transport endpoint.
func (r *Registry) Conn(sid core.SessionID) (core.ClientConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// MarkJoined records membership. Joining a second room of the same
// kind does not drop the first; membership is additive until
// disconnect.
func (r *Registry) MarkJoined(sid core.SessionID, key domain.RoomKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.joined[key] = struct{}{}
	return true
}

// JoinedRooms lists every room the session is currently a member of.
func (r *Registry) JoinedRooms(sid core.SessionID) []domain.RoomKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	out := make([]domain.RoomKey, 0, len(e.joined))
	for k := range e.joined {
		out = append(out, k)
	}
	return out
}

// SetChatIdentity remembers the (room, name) of the last chat join.
// A later join overwrites it; only that room gets the leave message.
func (r *Registry) SetChatIdentity(sid core.SessionID, room, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.chatRoom = room
		e.chatName = name
		log.Info().Str("module", "hub.registry").Str("sid", string(sid)).Str("room", room).Str("name", name).Msg("chat identity set")
	}
}

// ChatIdentity reports the remembered chat join, if any.
func (r *Registry) ChatIdentity(sid core.SessionID) (room, name string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, found := r.sessions[sid]
	if !found || e.chatRoom == "" || e.chatName == "" {
		return "", "", false
	}
	return e.chatRoom, e.chatName, true
}

// Unbind releases the session and returns the rooms it had joined so
// the caller can clear memberships.
func (r *Registry) Unbind(sid core.SessionID) []domain.RoomKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	delete(r.sessions, sid)
	out := make([]domain.RoomKey, 0, len(e.joined))
	for k := range e.joined {
		out = append(out, k)
	}
	log.Info().Str("module", "hub.registry").Str("sid", string(sid)).Int("rooms", len(out)).Msg("unbind session")
	return out
}
