package core

// Frame is an encoded outbound message, ready for the wire.
type Frame []byte

type SessionID string

// ClientConn abstracts a session's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type ClientConn interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the router.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// Room is the membership set of one feature room. It owns nothing
// but the set; transport resources stay with the adapter.
type Room interface {
	MemberCount() int
	Members() []SessionID
	AddMember(sid SessionID, conn ClientConn)
	RemoveMember(sid SessionID)
	Has(sid SessionID) bool

	// Broadcast delivers to every member except from. Pass an empty
	// SessionID to include every member.
	Broadcast(from SessionID, data Frame) PublishResult
	// Unicast delivers to a single member, if present.
	Unicast(to SessionID, data Frame) PublishResult
}
