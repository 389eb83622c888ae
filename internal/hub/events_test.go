package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Event
	}{
		{
			name: "chat join",
			data: `{"type":"joinRoom","room":"lobby","userName":"Alice"}`,
			want: &JoinChat{Room: "lobby", UserName: "Alice"},
		},
		{
			name: "code change",
			data: `{"type":"codeChange","roomId":"r","code":"package main"}`,
			want: &CodeChange{RoomID: "r", Code: "package main"},
		},
		{
			name: "draw with numeric thickness",
			data: `{"type":"draw","boardId":"B1","x1":1,"y1":2,"x2":3,"y2":4,"color":"#000","thickness":3}`,
			want: &Draw{BoardID: "B1", X1: 1, Y1: 2, X2: 3, Y2: 4, Color: "#000", Thickness: "3"},
		},
		{
			name: "move node",
			data: `{"type":"moveNode","roomId":"R1","nodeId":"n1","newX":10.5,"newY":20}`,
			want: &MoveNode{RoomID: "R1", NodeID: "n1", NewX: 10.5, NewY: 20},
		},
		{
			name: "expand canvas",
			data: `{"type":"expandCanvas","roomId":"R1","newWidth":2400,"newHeight":1600}`,
			want: &ExpandCanvas{RoomID: "R1", NewWidth: 2400, NewHeight: 1600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEventPartialNodeUpdate(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"updateNode","roomId":"R1","nodeId":"n1","updates":{"text":"hi","color":"#fff"}}`))
	require.NoError(t, err)
	upd, ok := ev.(*UpdateNode)
	require.True(t, ok)

	require.NotNil(t, upd.Updates.Text)
	assert.Equal(t, "hi", *upd.Updates.Text)
	require.NotNil(t, upd.Updates.Color)
	// Fields the client did not send stay nil so the reducer leaves
	// them untouched.
	assert.Nil(t, upd.Updates.X)
	assert.Nil(t, upd.Updates.FontSize)
}

func TestDecodeEventErrors(t *testing.T) {
	_, err := DecodeEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`{"type":"teleport"}`))
	var unknown *UnknownEventError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "teleport", unknown.Tag)
}
