// Package hub is the real-time synchronization core: room state,
// session registry, and the event router that applies mutations and
// fans deltas out to room members.
package hub

import (
	"encoding/json"
	"fmt"

	"github.com/collabhub-in/collabhub/internal/domain"
)

// Event is the closed set of inbound wire messages. One variant per
// event tag; the router dispatches through an explicit type switch.
type Event interface{ eventTag() string }

// UnknownEventError reports an unrecognized wire tag.
type UnknownEventError struct{ Tag string }

func (e *UnknownEventError) Error() string { return fmt.Sprintf("unknown event %q", e.Tag) }

// Chat.

type JoinChat struct {
	Room     string `json:"room"`
	UserName string `json:"userName"`
}

type SendMessage struct {
	Room    string `json:"room"`
	User    string `json:"user"`
	Message string `json:"message"`
}

// Code.

type JoinCodeRoom struct {
	RoomID string `json:"roomId"`
}

type CodeChange struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// Whiteboard.

type JoinBoard struct {
	BoardID string `json:"boardId"`
}

type Draw struct {
	BoardID   string      `json:"boardId"`
	X1        float64     `json:"x1"`
	Y1        float64     `json:"y1"`
	X2        float64     `json:"x2"`
	Y2        float64     `json:"y2"`
	Color     string      `json:"color"`
	Thickness json.Number `json:"thickness"`
}

type ClearBoard struct {
	BoardID string `json:"boardId"`
}

// Flowchart.

type JoinFlowchart struct {
	RoomID string `json:"roomId"`
}

type CreateNode struct {
	RoomID string      `json:"roomId"`
	Node   domain.Node `json:"nodeData"`
}

type MoveNode struct {
	RoomID string  `json:"roomId"`
	NodeID string  `json:"nodeId"`
	NewX   float64 `json:"newX"`
	NewY   float64 `json:"newY"`
}

type UpdateNode struct {
	RoomID  string            `json:"roomId"`
	NodeID  string            `json:"nodeId"`
	Updates domain.NodeUpdate `json:"updates"`
}

type DeleteNode struct {
	RoomID string `json:"roomId"`
	NodeID string `json:"nodeId"`
}

type CreateConnector struct {
	RoomID    string           `json:"roomId"`
	Connector domain.Connector `json:"connectorData"`
}

type UpdateConnector struct {
	RoomID      string                 `json:"roomId"`
	ConnectorID string                 `json:"connectorId"`
	Updates     domain.ConnectorUpdate `json:"updates"`
}

type DeleteConnector struct {
	RoomID      string `json:"roomId"`
	ConnectorID string `json:"connectorId"`
}

type ExpandCanvas struct {
	RoomID    string  `json:"roomId"`
	NewWidth  float64 `json:"newWidth"`
	NewHeight float64 `json:"newHeight"`
}

func (JoinChat) eventTag() string        { return "joinRoom" }
func (SendMessage) eventTag() string     { return "sendMessage" }
func (JoinCodeRoom) eventTag() string    { return "joinCodeRoom" }
func (CodeChange) eventTag() string      { return "codeChange" }
func (JoinBoard) eventTag() string       { return "joinBoard" }
func (Draw) eventTag() string            { return "draw" }
func (ClearBoard) eventTag() string      { return "clearBoard" }
func (JoinFlowchart) eventTag() string   { return "joinFlowchart" }
func (CreateNode) eventTag() string      { return "createNode" }
func (MoveNode) eventTag() string        { return "moveNode" }
func (UpdateNode) eventTag() string      { return "updateNode" }
func (DeleteNode) eventTag() string      { return "deleteNode" }
func (CreateConnector) eventTag() string { return "createConnector" }
func (UpdateConnector) eventTag() string { return "updateConnector" }
func (DeleteConnector) eventTag() string { return "deleteConnector" }
func (ExpandCanvas) eventTag() string    { return "expandCanvas" }

// DecodeEvent parses one wire message: an envelope {"type": tag}
// followed by the tag's payload fields on the same object.
func DecodeEvent(data []byte) (Event, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bad envelope: %w", err)
	}

	var ev Event
	switch env.Type {
	case "joinRoom":
		ev = &JoinChat{}
	case "sendMessage":
		ev = &SendMessage{}
	case "joinCodeRoom":
		ev = &JoinCodeRoom{}
	case "codeChange":
		ev = &CodeChange{}
	case "joinBoard":
		ev = &JoinBoard{}
	case "draw":
		ev = &Draw{}
	case "clearBoard":
		ev = &ClearBoard{}
	case "joinFlowchart":
		ev = &JoinFlowchart{}
	case "createNode":
		ev = &CreateNode{}
	case "moveNode":
		ev = &MoveNode{}
	case "updateNode":
		ev = &UpdateNode{}
	case "deleteNode":
		ev = &DeleteNode{}
	case "createConnector":
		ev = &CreateConnector{}
	case "updateConnector":
		ev = &UpdateConnector{}
	case "deleteConnector":
		ev = &DeleteConnector{}
	case "expandCanvas":
		ev = &ExpandCanvas{}
	default:
		return nil, &UnknownEventError{Tag: env.Type}
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("bad %s payload: %w", env.Type, err)
	}
	return ev, nil
}
