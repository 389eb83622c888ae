package hub

import (
	"encoding/json"

	"github.com/collabhub-in/collabhub/internal/domain"
)

// Outbound wire payloads. Tags are past tense where the event
// announces an applied mutation.

type outNewMessage struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Message string `json:"message"`
}

type outCodeUpdate struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

type outDraw struct {
	Type      string      `json:"type"`
	BoardID   string      `json:"boardId"`
	X1        float64     `json:"x1"`
	Y1        float64     `json:"y1"`
	X2        float64     `json:"x2"`
	Y2        float64     `json:"y2"`
	Color     string      `json:"color"`
	Thickness json.Number `json:"thickness"`
}

type outClearBoard struct {
	Type    string `json:"type"`
	BoardID string `json:"boardId"`
}

type outFlowchartUpdate struct {
	Type       string             `json:"type"`
	Nodes      []domain.Node      `json:"nodes"`
	Connectors []domain.Connector `json:"connectors"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
}

type outNewNode struct {
	Type string      `json:"type"`
	Node domain.Node `json:"nodeData"`
}

type outNodeMoved struct {
	Type   string  `json:"type"`
	NodeID string  `json:"nodeId"`
	NewX   float64 `json:"newX"`
	NewY   float64 `json:"newY"`
}

type outNodeUpdated struct {
	Type    string            `json:"type"`
	NodeID  string            `json:"nodeId"`
	Updates domain.NodeUpdate `json:"updates"`
}

type outNodeDeleted struct {
	Type   string `json:"type"`
	NodeID string `json:"nodeId"`
}

type outNewConnector struct {
	Type      string           `json:"type"`
	Connector domain.Connector `json:"connectorData"`
}

type outConnectorUpdated struct {
	Type        string                 `json:"type"`
	ConnectorID string                 `json:"connectorId"`
	Updates     domain.ConnectorUpdate `json:"updates"`
}

type outConnectorDeleted struct {
	Type        string `json:"type"`
	ConnectorID string `json:"connectorId"`
}

type outCanvasExpanded struct {
	Type      string  `json:"type"`
	NewWidth  float64 `json:"newWidth"`
	NewHeight float64 `json:"newHeight"`
}
