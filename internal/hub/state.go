package hub

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/domain"
)

// CodeDoc is the authoritative document of one code room.
// Mutation is total replacement; the newest write wins.
type CodeDoc struct {
	Code      string    `json:"code"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// State is the Room Registry: the authoritative in-memory state of
// every stateful feature room. Entries are created lazily on first
// join and live for the process lifetime; there is no eviction, so a
// long-running process accumulates every room key it has ever seen.
//
// State is an explicit object handed to the router at construction,
// never package-level.
type State struct {
	mu         sync.RWMutex
	codeDocs   map[string]CodeDoc
	flowcharts map[string]*domain.Flowchart
	now        func() time.Time
}

func NewState() *State {
	return &State{
		codeDocs:   make(map[string]CodeDoc),
		flowcharts: make(map[string]*domain.Flowchart),
		now:        time.Now,
	}
}

// EnsureFlowchart creates the room's graph with defaults if it does
// not exist yet and returns a snapshot safe to marshal outside the
// lock. It never fails and never removes anything.
func (s *State) EnsureFlowchart(room string) domain.Flowchart {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		fc = domain.NewFlowchart()
		s.flowcharts[room] = fc
		log.Info().Str("module", "hub.state").Str("room", room).Msg("flowchart room created")
	}
	return snapshotFlowchart(fc)
}

// FlowchartSnapshot returns a copy of the room's graph without
// creating it. Used by bootstrap tests and read-only callers.
func (s *State) FlowchartSnapshot(room string) (domain.Flowchart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return domain.Flowchart{}, false
	}
	return snapshotFlowchart(fc), true
}

func snapshotFlowchart(fc *domain.Flowchart) domain.Flowchart {
	out := domain.Flowchart{
		Nodes:      make([]domain.Node, len(fc.Nodes)),
		Connectors: make([]domain.Connector, len(fc.Connectors)),
		Width:      fc.Width,
		Height:     fc.Height,
	}
	copy(out.Nodes, fc.Nodes)
	copy(out.Connectors, fc.Connectors)
	return out
}

// SetCode replaces the room's document unconditionally.
func (s *State) SetCode(room, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codeDocs[room] = CodeDoc{Code: code, UpdatedAt: s.now()}
}

// Code returns the room's document, if one was ever written.
func (s *State) Code(room string) (CodeDoc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.codeDocs[room]
	return doc, ok
}
