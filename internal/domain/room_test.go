package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "medhaven/pkg/errors"
)

func TestRoomID(t *testing.T) {
	id, err := RoomID("u2", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1-u2", id)

	swapped, err := RoomID("u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, id, swapped)

	id, err = RoomID("664f1a", "664e9b")
	require.NoError(t, err)
	assert.Equal(t, "664e9b-664f1a", id)
}

func TestRoomID_Invalid(t *testing.T) {
	cases := []struct{ a, b string }{
		{"", "u1"},
		{"u1", ""},
		{"", ""},
		{"u1", "u1"},
	}
	for _, tc := range cases {
		_, err := RoomID(tc.a, tc.b)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "RoomID(%q, %q)", tc.a, tc.b)
	}
}

func TestRoomCounterpart(t *testing.T) {
	other, ok := RoomCounterpart("u1-u2", "u1")
	require.True(t, ok)
	assert.Equal(t, "u2", other)

	other, ok = RoomCounterpart("u1-u2", "u2")
	require.True(t, ok)
	assert.Equal(t, "u1", other)

	_, ok = RoomCounterpart("u1-u2", "u3")
	assert.False(t, ok)

	// halves out of order never form a valid room
	_, ok = RoomCounterpart("u2-u1", "u1")
	assert.False(t, ok)

	_, ok = RoomCounterpart("u1-u1", "u1")
	assert.False(t, ok)
}

func TestRoomCounterpart_SeparatorInID(t *testing.T) {
	id, err := RoomID("a-b", "c")
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", id)

	other, ok := RoomCounterpart(id, "a-b")
	require.True(t, ok)
	assert.Equal(t, "c", other)

	other, ok = RoomCounterpart(id, "c")
	require.True(t, ok)
	assert.Equal(t, "a-b", other)
}

func TestMessagePatch_Apply(t *testing.T) {
	msg := &ChatMessage{Text: "hello", ImageURLs: []string{"a.png"}, FileURLs: []string{}}

	MessagePatch{}.Apply(msg)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, []string{"a.png"}, msg.ImageURLs)

	empty := ""
	MessagePatch{Text: &empty}.Apply(msg)
	assert.Equal(t, "", msg.Text)
	assert.True(t, msg.HasContent())

	none := []string{}
	MessagePatch{ImageURLs: &none}.Apply(msg)
	assert.False(t, msg.HasContent())
}

func TestChatMessage_ReadBy(t *testing.T) {
	msg := &ChatMessage{SenderID: "u1", ReceiverID: "u2", ReadBy: []string{"u1"}}
	assert.True(t, msg.IsReadBy("u1"))
	assert.False(t, msg.IsReadBy("u2"))
	assert.True(t, msg.IsParticipant("u2"))
	assert.False(t, msg.IsParticipant("u3"))
}
