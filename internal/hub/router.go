package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/core"
	"github.com/collabhub-in/collabhub/internal/domain"
)

// Router applies mutation events to the state registry and fans the
// resulting deltas out to room members.
//
// One mutex serializes every mutate-then-broadcast pair, so all
// members observe a room's mutations in the exact order the router
// accepted them, and a broadcast never carries state older than the
// mutation it announces. Nothing inside a dispatch blocks; slow
// consumers are dropped, not waited for.
type Router struct {
	mu       sync.Mutex
	state    *State
	registry *Registry
	rooms    *Rooms
}

func NewRouter(state *State, registry *Registry, rooms *Rooms) *Router {
	return &Router{state: state, registry: registry, rooms: rooms}
}

// State exposes the room registry for read-side collaborators
// (the code-share REST mirror). State does its own locking.
func (r *Router) State() *State { return r.state }

// Dispatch routes one inbound event from a live session.
func (r *Router) Dispatch(sid core.SessionID, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := ev.(type) {
	case *JoinChat:
		r.joinChat(sid, e)
	case *SendMessage:
		r.relayChat(e.Room, domain.ChatMessage{User: e.User, Message: e.Message})
	case *JoinCodeRoom:
		r.joinCode(sid, e)
	case *CodeChange:
		r.codeChange(sid, e)
	case *JoinBoard:
		r.join(sid, domain.NewRoomKey(domain.KindBoard, e.BoardID))
	case *Draw:
		r.relayDraw(sid, e)
	case *ClearBoard:
		r.clearBoard(e)
	case *JoinFlowchart:
		r.joinFlowchart(sid, e)
	case *CreateNode:
		if r.state.CreateNode(e.RoomID, e.Node) {
			r.broadcastFlowchart(sid, e.RoomID, outNewNode{Type: "newNode", Node: e.Node})
		}
	case *MoveNode:
		if r.state.MoveNode(e.RoomID, e.NodeID, e.NewX, e.NewY) {
			r.broadcastFlowchart(sid, e.RoomID, outNodeMoved{Type: "nodeMoved", NodeID: e.NodeID, NewX: e.NewX, NewY: e.NewY})
		}
	case *UpdateNode:
		if r.state.UpdateNode(e.RoomID, e.NodeID, e.Updates) {
			r.broadcastFlowchart(sid, e.RoomID, outNodeUpdated{Type: "nodeUpdated", NodeID: e.NodeID, Updates: e.Updates})
		}
	case *DeleteNode:
		if r.state.DeleteNode(e.RoomID, e.NodeID) {
			r.broadcastFlowchart(sid, e.RoomID, outNodeDeleted{Type: "nodeDeleted", NodeID: e.NodeID})
		}
	case *CreateConnector:
		if r.state.CreateConnector(e.RoomID, e.Connector) {
			r.broadcastFlowchart(sid, e.RoomID, outNewConnector{Type: "newConnector", Connector: e.Connector})
		}
	case *UpdateConnector:
		if r.state.UpdateConnector(e.RoomID, e.ConnectorID, e.Updates) {
			r.broadcastFlowchart(sid, e.RoomID, outConnectorUpdated{Type: "connectorUpdated", ConnectorID: e.ConnectorID, Updates: e.Updates})
		}
	case *DeleteConnector:
		if r.state.DeleteConnector(e.RoomID, e.ConnectorID) {
			r.broadcastFlowchart(sid, e.RoomID, outConnectorDeleted{Type: "connectorDeleted", ConnectorID: e.ConnectorID})
		}
	case *ExpandCanvas:
		if r.state.ExpandCanvas(e.RoomID, e.NewWidth, e.NewHeight) {
			r.broadcastFlowchart(sid, e.RoomID, outCanvasExpanded{Type: "canvasExpanded", NewWidth: e.NewWidth, NewHeight: e.NewHeight})
		}
	default:
		log.Warn().Str("module", "hub.router").Str("tag", ev.eventTag()).Msg("unhandled event")
	}
}

// OnDisconnect clears the session's memberships and announces the
// chat departure, if the session ever completed a chat join.
func (r *Router) OnDisconnect(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chatRoom, chatName, announce := r.registry.ChatIdentity(sid)
	for _, key := range r.registry.Unbind(sid) {
		if room, ok := r.rooms.Get(key); ok {
			room.RemoveMember(sid)
		}
	}
	if announce {
		r.relayChat(chatRoom, domain.ChatMessage{
			User:    domain.SystemUser,
			Message: fmt.Sprintf("%s left the chat.", chatName),
		})
	}
}

// PostChatMessage injects a message into a chat room on behalf of an
// HTTP-side collaborator (the AI reply path). Everyone in the room
// receives it.
func (r *Router) PostChatMessage(room string, msg domain.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.relayChat(room, msg)
}

// ReplaceCode applies a REST-side document write and notifies every
// member of the code room.
func (r *Router) ReplaceCode(roomID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.SetCode(roomID, code)
	if room, ok := r.rooms.Get(domain.NewRoomKey(domain.KindCode, roomID)); ok {
		r.deliver(room, "", outCodeUpdate{Type: "codeUpdate", Code: code})
	}
}

func (r *Router) joinChat(sid core.SessionID, e *JoinChat) {
	if err := domain.ValidateUsername(e.UserName); err != nil {
		// Membership still happens; only the identity and its
		// announcements are skipped.
		log.Warn().Str("module", "hub.router").Str("sid", string(sid)).Err(err).Msg("chat join without identity")
		r.join(sid, domain.NewRoomKey(domain.KindChat, e.Room))
		return
	}
	if !r.join(sid, domain.NewRoomKey(domain.KindChat, e.Room)) {
		return
	}
	r.registry.SetChatIdentity(sid, e.Room, e.UserName)
	r.relayChat(e.Room, domain.ChatMessage{
		User:    domain.SystemUser,
		Message: fmt.Sprintf("%s joined the chat.", e.UserName),
	})
}

func (r *Router) relayChat(roomName string, msg domain.ChatMessage) {
	room, ok := r.rooms.Get(domain.NewRoomKey(domain.KindChat, roomName))
	if !ok {
		return
	}
	r.deliver(room, "", outNewMessage{Type: "newMessage", User: msg.User, Message: msg.Message})
}

func (r *Router) joinCode(sid core.SessionID, e *JoinCodeRoom) {
	if !r.join(sid, domain.NewRoomKey(domain.KindCode, e.RoomID)) {
		return
	}
	// Bootstrap: the joiner gets the current document, if one exists.
	doc, ok := r.state.Code(e.RoomID)
	if !ok {
		return
	}
	room, _ := r.rooms.Get(domain.NewRoomKey(domain.KindCode, e.RoomID))
	r.unicast(room, sid, outCodeUpdate{Type: "codeUpdate", Code: doc.Code})
}

func (r *Router) codeChange(sid core.SessionID, e *CodeChange) {
	// Last write wins unconditionally, even from a sender that never
	// joined; the value served to future joiners is always the newest.
	r.state.SetCode(e.RoomID, e.Code)
	if room, ok := r.rooms.Get(domain.NewRoomKey(domain.KindCode, e.RoomID)); ok {
		r.deliver(room, sid, outCodeUpdate{Type: "codeUpdate", Code: e.Code})
	}
}

func (r *Router) relayDraw(sid core.SessionID, e *Draw) {
	room, ok := r.rooms.Get(domain.NewRoomKey(domain.KindBoard, e.BoardID))
	if !ok {
		return
	}
	r.deliver(room, sid, outDraw{
		Type: "draw", BoardID: e.BoardID,
		X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2,
		Color: e.Color, Thickness: e.Thickness,
	})
}

func (r *Router) clearBoard(e *ClearBoard) {
	room, ok := r.rooms.Get(domain.NewRoomKey(domain.KindBoard, e.BoardID))
	if !ok {
		return
	}
	r.deliver(room, "", outClearBoard{Type: "clearBoard", BoardID: e.BoardID})
}

func (r *Router) joinFlowchart(sid core.SessionID, e *JoinFlowchart) {
	if !r.join(sid, domain.NewRoomKey(domain.KindFlowchart, e.RoomID)) {
		return
	}
	snap := r.state.EnsureFlowchart(e.RoomID)
	room, _ := r.rooms.Get(domain.NewRoomKey(domain.KindFlowchart, e.RoomID))
	r.unicast(room, sid, outFlowchartUpdate{
		Type:       "flowchartUpdate",
		Nodes:      snap.Nodes,
		Connectors: snap.Connectors,
		Width:      snap.Width,
		Height:     snap.Height,
	})
}

func (r *Router) broadcastFlowchart(sid core.SessionID, roomID string, payload any) {
	room, ok := r.rooms.Get(domain.NewRoomKey(domain.KindFlowchart, roomID))
	if !ok {
		return
	}
	r.deliver(room, sid, payload)
}

// join adds the session to the room's membership. It reports false
// only when the session is no longer bound (already disconnected).
func (r *Router) join(sid core.SessionID, key domain.RoomKey) bool {
	conn, ok := r.registry.Conn(sid)
	if !ok {
		return false
	}
	room := r.rooms.GetOrCreate(key)
	room.AddMember(sid, conn)
	r.registry.MarkJoined(sid, key)
	log.Info().Str("module", "hub.router").Str("sid", string(sid)).Str("kind", string(key.Kind)).Str("room", key.Name).Msg("joined room")
	return true
}

// deliver broadcasts to the room, excluding from when non-empty, and
// kicks members whose send buffers are full.
func (r *Router) deliver(room core.Room, from core.SessionID, payload any) {
	frame, err := encode(payload)
	if err != nil {
		return
	}
	res := room.Broadcast(from, frame)
	r.dropSlow(room, res.Dropped)
}

func (r *Router) unicast(room core.Room, to core.SessionID, payload any) {
	frame, err := encode(payload)
	if err != nil {
		return
	}
	res := room.Unicast(to, frame)
	r.dropSlow(room, res.Dropped)
}

// dropSlow evicts backpressured members from every room they joined
// and closes their transports. The session stays bound until the read
// loop exits, so the disconnect path can still announce the departure.
func (r *Router) dropSlow(room core.Room, dropped []core.SessionID) {
	for _, sid := range dropped {
		room.RemoveMember(sid)
		for _, key := range r.registry.JoinedRooms(sid) {
			if other, ok := r.rooms.Get(key); ok {
				other.RemoveMember(sid)
			}
		}
		if conn, ok := r.registry.Conn(sid); ok {
			conn.Close()
		}
		log.Warn().Str("module", "hub.router").Str("sid", string(sid)).Msg("dropped slow member")
	}
}

func encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Str("module", "hub.router").Err(err).Msg("encode payload")
		return nil, err
	}
	return core.Frame(b), nil
}
