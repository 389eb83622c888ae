package domain

// Default canvas dimensions for a freshly created flowchart room.
const (
	DefaultCanvasWidth  = 1200
	DefaultCanvasHeight = 800
)

// Node is one flowchart shape. Geometry is center-based.
// FontSize stays a string because clients send picker values verbatim.
type Node struct {
	ID         string  `json:"id"`
	Shape      string  `json:"shape"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Text       string  `json:"text"`
	Color      string  `json:"color"`
	FontColor  string  `json:"fontColor,omitempty"`
	FontSize   string  `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
}

// Connector joins two node anchors. It is meaningful only while
// both endpoint nodes exist.
type Connector struct {
	ID         string `json:"id"`
	FromNode   string `json:"fromNode"`
	FromAnchor string `json:"fromAnchor"`
	ToNode     string `json:"toNode"`
	ToAnchor   string `json:"toAnchor"`
	Text       string `json:"text"`
}

// SameEndpoints reports whether two connectors join the identical
// (fromNode, fromAnchor, toNode, toAnchor) tuple.
func (c Connector) SameEndpoints(o Connector) bool {
	return c.FromNode == o.FromNode && c.FromAnchor == o.FromAnchor &&
		c.ToNode == o.ToNode && c.ToAnchor == o.ToAnchor
}

// Flowchart is the authoritative per-room graph. Slices keep insertion
// order so every member renders nodes in the same stacking order.
type Flowchart struct {
	Nodes      []Node      `json:"nodes"`
	Connectors []Connector `json:"connectors"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
}

func NewFlowchart() *Flowchart {
	return &Flowchart{
		Nodes:      []Node{},
		Connectors: []Connector{},
		Width:      DefaultCanvasWidth,
		Height:     DefaultCanvasHeight,
	}
}

// NodeUpdate carries the fields of a partial node edit. Nil means
// "leave untouched"; the reducer merges only what is present.
type NodeUpdate struct {
	Shape      *string  `json:"shape,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Text       *string  `json:"text,omitempty"`
	Color      *string  `json:"color,omitempty"`
	FontColor  *string  `json:"fontColor,omitempty"`
	FontSize   *string  `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
}

// ConnectorUpdate is the partial-edit counterpart for connectors.
type ConnectorUpdate struct {
	FromNode   *string `json:"fromNode,omitempty"`
	FromAnchor *string `json:"fromAnchor,omitempty"`
	ToNode     *string `json:"toNode,omitempty"`
	ToAnchor   *string `json:"toAnchor,omitempty"`
	Text       *string `json:"text,omitempty"`
}
