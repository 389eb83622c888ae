package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabhub-in/collabhub/internal/domain"
)

func newNode(id string, x, y float64) domain.Node {
	return domain.Node{ID: id, Shape: "rect", X: x, Y: y, Width: 120, Height: 60, Color: "#ffffff"}
}

func TestMutationsOnUnknownRoomAreNoOps(t *testing.T) {
	s := NewState()

	assert.False(t, s.CreateNode("nope", newNode("n1", 0, 0)))
	assert.False(t, s.MoveNode("nope", "n1", 1, 2))
	assert.False(t, s.UpdateNode("nope", "n1", domain.NodeUpdate{}))
	assert.False(t, s.DeleteNode("nope", "n1"))
	assert.False(t, s.CreateConnector("nope", domain.Connector{ID: "c1"}))
	assert.False(t, s.DeleteConnector("nope", "c1"))
	assert.False(t, s.ExpandCanvas("nope", 100, 100))
}

func TestEnsureFlowchartDefaults(t *testing.T) {
	s := NewState()
	fc := s.EnsureFlowchart("R1")

	assert.Empty(t, fc.Nodes)
	assert.Empty(t, fc.Connectors)
	assert.Equal(t, float64(domain.DefaultCanvasWidth), fc.Width)
	assert.Equal(t, float64(domain.DefaultCanvasHeight), fc.Height)

	// Ensure again without mutations: identical snapshot.
	again := s.EnsureFlowchart("R1")
	assert.Equal(t, fc, again)
}

func TestCreateNodeLastWriteWinsOnIDCollision(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")

	require.True(t, s.CreateNode("R1", newNode("n1", 10, 10)))
	require.True(t, s.CreateNode("R1", newNode("n1", 99, 99)))

	fc, ok := s.FlowchartSnapshot("R1")
	require.True(t, ok)
	require.Len(t, fc.Nodes, 1)
	assert.Equal(t, 99.0, fc.Nodes[0].X)
}

func TestMoveNode(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")
	require.True(t, s.CreateNode("R1", newNode("n1", 10, 10)))

	require.True(t, s.MoveNode("R1", "n1", 200, 300))
	fc, _ := s.FlowchartSnapshot("R1")
	assert.Equal(t, 200.0, fc.Nodes[0].X)
	assert.Equal(t, 300.0, fc.Nodes[0].Y)
	// Only position changes.
	assert.Equal(t, 120.0, fc.Nodes[0].Width)

	assert.False(t, s.MoveNode("R1", "missing", 1, 1))
}

func TestUpdateNodeMergesOnlyProvidedFields(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")
	n := newNode("n1", 10, 10)
	n.Text = "start"
	n.FontSize = "14"
	require.True(t, s.CreateNode("R1", n))

	text := "finish"
	color := "#ff0000"
	require.True(t, s.UpdateNode("R1", "n1", domain.NodeUpdate{Text: &text, Color: &color}))

	fc, _ := s.FlowchartSnapshot("R1")
	got := fc.Nodes[0]
	assert.Equal(t, "finish", got.Text)
	assert.Equal(t, "#ff0000", got.Color)
	// Untouched fields survive.
	assert.Equal(t, "14", got.FontSize)
	assert.Equal(t, 10.0, got.X)

	assert.False(t, s.UpdateNode("R1", "missing", domain.NodeUpdate{Text: &text}))
}

func TestDeleteNodeCascadesConnectors(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")
	require.True(t, s.CreateNode("R1", newNode("n1", 0, 0)))
	require.True(t, s.CreateNode("R1", newNode("n2", 100, 0)))
	require.True(t, s.CreateConnector("R1", domain.Connector{ID: "c1", FromNode: "n1", FromAnchor: "r", ToNode: "n2", ToAnchor: "l"}))
	require.True(t, s.CreateConnector("R1", domain.Connector{ID: "c2", FromNode: "n2", FromAnchor: "r", ToNode: "n1", ToAnchor: "l"}))
	require.True(t, s.CreateConnector("R1", domain.Connector{ID: "c3", FromNode: "n2", FromAnchor: "t", ToNode: "n2", ToAnchor: "b"}))

	require.True(t, s.DeleteNode("R1", "n1"))

	fc, _ := s.FlowchartSnapshot("R1")
	require.Len(t, fc.Nodes, 1)
	assert.Equal(t, "n2", fc.Nodes[0].ID)
	// Every connector touching n1 went with it, c3 stays.
	require.Len(t, fc.Connectors, 1)
	assert.Equal(t, "c3", fc.Connectors[0].ID)

	// Subsequent operations on the deleted id are no-ops.
	assert.False(t, s.MoveNode("R1", "n1", 5, 5))
	assert.False(t, s.UpdateNode("R1", "n1", domain.NodeUpdate{}))
	assert.False(t, s.DeleteNode("R1", "n1"))
}

func TestDeleteNodeSelfLoop(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")
	require.True(t, s.CreateNode("R1", newNode("n1", 100, 100)))
	require.True(t, s.CreateConnector("R1", domain.Connector{ID: "c1", FromNode: "n1", FromAnchor: "t", ToNode: "n1", ToAnchor: "b"}))

	require.True(t, s.DeleteNode("R1", "n1"))

	fc, _ := s.FlowchartSnapshot("R1")
	assert.Empty(t, fc.Nodes)
	assert.Empty(t, fc.Connectors)
}

func TestCreateConnectorDeduplicatesByEndpoints(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")
	require.True(t, s.CreateNode("R1", newNode("n1", 0, 0)))
	require.True(t, s.CreateNode("R1", newNode("n2", 100, 0)))

	c := domain.Connector{ID: "c1", FromNode: "n1", FromAnchor: "r", ToNode: "n2", ToAnchor: "l"}
	require.True(t, s.CreateConnector("R1", c))

	dup := c
	dup.ID = "c2"
	assert.False(t, s.CreateConnector("R1", dup))

	// A different anchor is a different tuple.
	other := c
	other.ID = "c3"
	other.FromAnchor = "b"
	assert.True(t, s.CreateConnector("R1", other))

	fc, _ := s.FlowchartSnapshot("R1")
	assert.Len(t, fc.Connectors, 2)
}

func TestUpdateAndDeleteConnector(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")
	require.True(t, s.CreateNode("R1", newNode("n1", 0, 0)))
	require.True(t, s.CreateNode("R1", newNode("n2", 100, 0)))
	require.True(t, s.CreateConnector("R1", domain.Connector{ID: "c1", FromNode: "n1", FromAnchor: "r", ToNode: "n2", ToAnchor: "l"}))

	label := "yes"
	require.True(t, s.UpdateConnector("R1", "c1", domain.ConnectorUpdate{Text: &label}))
	fc, _ := s.FlowchartSnapshot("R1")
	assert.Equal(t, "yes", fc.Connectors[0].Text)
	// Endpoints untouched.
	assert.Equal(t, "n1", fc.Connectors[0].FromNode)

	assert.False(t, s.UpdateConnector("R1", "missing", domain.ConnectorUpdate{Text: &label}))

	require.True(t, s.DeleteConnector("R1", "c1"))
	assert.False(t, s.DeleteConnector("R1", "c1"))
	fc, _ = s.FlowchartSnapshot("R1")
	assert.Empty(t, fc.Connectors)
}

func TestExpandCanvas(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")

	require.True(t, s.ExpandCanvas("R1", 2400, 1600))
	fc, _ := s.FlowchartSnapshot("R1")
	assert.Equal(t, 2400.0, fc.Width)
	assert.Equal(t, 1600.0, fc.Height)
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewState()
	s.EnsureFlowchart("R1")
	require.True(t, s.CreateNode("R1", newNode("n1", 0, 0)))

	snap, _ := s.FlowchartSnapshot("R1")
	snap.Nodes[0].X = 999

	fc, _ := s.FlowchartSnapshot("R1")
	assert.Equal(t, 0.0, fc.Nodes[0].X)
}
