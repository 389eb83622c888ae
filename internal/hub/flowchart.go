package hub

import (
	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/domain"
)

// Flowchart reducers. Every method returns whether the mutation was
// applied; false means the room or the referenced id does not exist
// and the event must not be rebroadcast. A stale or duplicate client
// event therefore degrades to a silent no-op instead of corrupting
// the graph or desyncing other members.
//
// Mutations happen only on rooms already fabricated by a join; an
// event for an unknown room is treated as stale.

// CreateNode appends the node. Ids are client-generated; if a node
// with the same id already exists the new write replaces it.
func (s *State) CreateNode(room string, n domain.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	for i := range fc.Nodes {
		if fc.Nodes[i].ID == n.ID {
			fc.Nodes[i] = n
			return true
		}
	}
	fc.Nodes = append(fc.Nodes, n)
	return true
}

// MoveNode updates the node's center position only.
func (s *State) MoveNode(room, nodeID string, x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	for i := range fc.Nodes {
		if fc.Nodes[i].ID == nodeID {
			fc.Nodes[i].X = x
			fc.Nodes[i].Y = y
			return true
		}
	}
	return false
}

// UpdateNode merges the provided fields into the existing node.
// Absent fields are left untouched.
func (s *State) UpdateNode(room, nodeID string, u domain.NodeUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	for i := range fc.Nodes {
		if fc.Nodes[i].ID != nodeID {
			continue
		}
		mergeNode(&fc.Nodes[i], u)
		return true
	}
	return false
}

func mergeNode(n *domain.Node, u domain.NodeUpdate) {
	if u.Shape != nil {
		n.Shape = *u.Shape
	}
	if u.X != nil {
		n.X = *u.X
	}
	if u.Y != nil {
		n.Y = *u.Y
	}
	if u.Width != nil {
		n.Width = *u.Width
	}
	if u.Height != nil {
		n.Height = *u.Height
	}
	if u.Text != nil {
		n.Text = *u.Text
	}
	if u.Color != nil {
		n.Color = *u.Color
	}
	if u.FontColor != nil {
		n.FontColor = *u.FontColor
	}
	if u.FontSize != nil {
		n.FontSize = *u.FontSize
	}
	if u.FontFamily != nil {
		n.FontFamily = *u.FontFamily
	}
}

// DeleteNode removes the node and every connector referencing it in
// one step under the state lock, so no observer ever sees a dangling
// connector.
func (s *State) DeleteNode(room, nodeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	found := false
	nodes := fc.Nodes[:0]
	for _, n := range fc.Nodes {
		if n.ID == nodeID {
			found = true
			continue
		}
		nodes = append(nodes, n)
	}
	if !found {
		return false
	}
	fc.Nodes = nodes

	conns := fc.Connectors[:0]
	removed := 0
	for _, c := range fc.Connectors {
		if c.FromNode == nodeID || c.ToNode == nodeID {
			removed++
			continue
		}
		conns = append(conns, c)
	}
	fc.Connectors = conns
	if removed > 0 {
		log.Debug().Str("module", "hub.state").Str("room", room).Str("node", nodeID).Int("connectors", removed).Msg("cascade delete")
	}
	return true
}

// CreateConnector appends the connector unless one with the identical
// endpoint tuple already exists. Clients de-duplicate before sending;
// the check here keeps the set consistent when a duplicate slips
// through anyway.
func (s *State) CreateConnector(room string, c domain.Connector) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	for _, existing := range fc.Connectors {
		if existing.SameEndpoints(c) {
			return false
		}
	}
	fc.Connectors = append(fc.Connectors, c)
	return true
}

// UpdateConnector merges the provided fields into the connector.
func (s *State) UpdateConnector(room, connectorID string, u domain.ConnectorUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	for i := range fc.Connectors {
		if fc.Connectors[i].ID != connectorID {
			continue
		}
		mergeConnector(&fc.Connectors[i], u)
		return true
	}
	return false
}

func mergeConnector(c *domain.Connector, u domain.ConnectorUpdate) {
	if u.FromNode != nil {
		c.FromNode = *u.FromNode
	}
	if u.FromAnchor != nil {
		c.FromAnchor = *u.FromAnchor
	}
	if u.ToNode != nil {
		c.ToNode = *u.ToNode
	}
	if u.ToAnchor != nil {
		c.ToAnchor = *u.ToAnchor
	}
	if u.Text != nil {
		c.Text = *u.Text
	}
}

// DeleteConnector removes the connector by id.
func (s *State) DeleteConnector(room, connectorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	for i, c := range fc.Connectors {
		if c.ID == connectorID {
			fc.Connectors = append(fc.Connectors[:i], fc.Connectors[i+1:]...)
			return true
		}
	}
	return false
}

// ExpandCanvas replaces the room's canvas dimensions. The sender has
// already resized locally; the broadcast informs everyone else.
func (s *State) ExpandCanvas(room string, width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc, ok := s.flowcharts[room]
	if !ok {
		return false
	}
	fc.Width = width
	fc.Height = height
	return true
}
