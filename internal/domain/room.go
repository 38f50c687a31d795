package domain

import (
	"strings"

	apperrors "medhaven/pkg/errors"
)

// RoomSeparator joins the two participant ids of a room id.
const RoomSeparator = "-"

// RoomID derives the conversation id shared by two users. The lexicographically
// smaller id comes first, so RoomID(a, b) == RoomID(b, a).
func RoomID(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", apperrors.Validation("both participant ids are required")
	}
	if a == b {
		return "", apperrors.Validation("a room needs two distinct participants")
	}
	if a < b {
		return a + RoomSeparator + b, nil
	}
	return b + RoomSeparator + a, nil
}

// RoomCounterpart returns the other participant of roomID when userID is one
// of its two participants. The candidate split is re-derived with RoomID, so
// ids containing the separator are handled and a room id whose halves are in
// the wrong order is rejected.
func RoomCounterpart(roomID, userID string) (string, bool) {
	if roomID == "" || userID == "" {
		return "", false
	}
	if other, ok := strings.CutPrefix(roomID, userID+RoomSeparator); ok {
		if id, err := RoomID(userID, other); err == nil && id == roomID {
			return other, true
		}
	}
	if other, ok := strings.CutSuffix(roomID, RoomSeparator+userID); ok {
		if id, err := RoomID(userID, other); err == nil && id == roomID {
			return other, true
		}
	}
	return "", false
}

// IsRoomParticipant reports whether userID is one of the two users of roomID.
func IsRoomParticipant(roomID, userID string) bool {
	_, ok := RoomCounterpart(roomID, userID)
	return ok
}
