package core

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory membership set.
// It never closes adapter-owned resources.
type roomImpl struct {
	mu    sync.RWMutex
	bySID map[SessionID]ClientConn
}

func NewRoom() Room {
	return &roomImpl{bySID: make(map[SessionID]ClientConn)}
}

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) Members() []SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SessionID, 0, len(r.bySID))
	for sid := range r.bySID {
		out = append(out, sid)
	}
	return out
}

func (r *roomImpl) AddMember(sid SessionID, conn ClientConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySID[sid] = conn
	log.Debug().Str("module", "core.room").Str("sid", string(sid)).Msg("member added")
}

func (r *roomImpl) RemoveMember(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySID, sid)
	log.Debug().Str("module", "core.room").Str("sid", string(sid)).Msg("member removed")
}

func (r *roomImpl) Has(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bySID[sid]
	return ok
}

func (r *roomImpl) Broadcast(from SessionID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for sid, conn := range r.bySID {
		if sid == from {
			continue
		}
		if err := conn.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) Unicast(to SessionID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	conn, ok := r.bySID[to]
	if !ok {
		return res
	}
	if err := conn.TrySend(data); err != nil {
		res.Dropped = append(res.Dropped, to)
		return res
	}
	res.SentTo = 1
	return res
}
