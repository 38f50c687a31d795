package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubClient struct{ id, user string }

func (s stubClient) ID() string          { return s.id }
func (s stubClient) UserID() string      { return s.user }
func (s stubClient) Send() chan<- []byte { return nil }
func (s stubClient) Close()              {}

func ids(cs []Client) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID())
	}
	return out
}

func TestRegistry_Membership(t *testing.T) {
	r := NewRegistry()
	r.Add(stubClient{"a", "u1"})
	r.Add(stubClient{"b", "u2"})
	r.Add(stubClient{"c", "u1"})

	r.JoinRoom("a", "u1-u2")
	r.JoinRoom("b", "u1-u2")
	r.JoinUser("c", "u1")

	assert.ElementsMatch(t, []string{"b"}, ids(r.RoomMembers("u1-u2", "a")))
	assert.ElementsMatch(t, []string{"a", "b"}, ids(r.RoomMembers("u1-u2", "")))
	assert.ElementsMatch(t, []string{"c"}, ids(r.UserMembers("u1", "")))
	assert.Empty(t, r.RoomMembers("u1-u3", ""))
	assert.Equal(t, 2, r.LiveConnections("u1"))

	r.LeaveRoom("a", "u1-u2")
	assert.ElementsMatch(t, []string{"b"}, ids(r.RoomMembers("u1-u2", "")))

	// joins for unknown connections are ignored
	r.JoinRoom("ghost", "u1-u2")
	assert.Len(t, r.RoomMembers("u1-u2", ""), 1)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Add(stubClient{"a", "u1"})
	r.Add(stubClient{"c", "u1"})
	r.JoinRoom("a", "u1-u2")
	r.JoinUser("a", "u1")

	assert.Equal(t, 1, r.Remove("a"))
	assert.Equal(t, -1, r.Remove("a"))
	assert.Equal(t, Stats{Connections: 1, Users: 1}, r.Stats())

	assert.Equal(t, 0, r.Remove("c"))
	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistry_Online(t *testing.T) {
	r := NewRegistry()
	r.SetOnline("u1")
	assert.True(t, r.IsOnline("u1"))
	assert.Equal(t, 1, r.Stats().OnlineUsers)
	r.SetOffline("u1")
	assert.False(t, r.IsOnline("u1"))
}
