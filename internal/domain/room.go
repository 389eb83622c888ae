// Package domain contains entity without logic, just meta-data
package domain

// RoomKind partitions room keys by feature. The same string names
// different rooms under different kinds.
type RoomKind string

const (
	KindChat      RoomKind = "chat"
	KindCode      RoomKind = "code"
	KindBoard     RoomKind = "board"
	KindFlowchart RoomKind = "flowchart"
)

// RoomKey identifies one room: feature kind plus the client-chosen name.
type RoomKey struct {
	Kind RoomKind
	Name string
}

func NewRoomKey(kind RoomKind, name string) RoomKey {
	return RoomKey{Kind: kind, Name: name}
}
