package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Inbound event names.
const (
	EventJoinUserRoom  = "joinUserRoom"
	EventJoinChatRoom  = "joinChatRoom"
	EventLeaveChatRoom = "leaveChatRoom"
	EventSendChat      = "sendChat"
	EventTyping        = "typing"
	EventStopTyping    = "stopTyping"
	EventOnline        = "online"
	EventOffline       = "offline"
	EventReadMessage   = "readMessage"
)

// Outbound event names.
const (
	EventReceiveChat = "receiveChat"
	EventNotify      = "notify"
	EventShowTyping  = "showTyping"
	EventHideTyping  = "hideTyping"
	EventUserOnline  = "userOnline"
	EventUserOffline = "userOffline"
	EventReadReceipt = "readReceipt"
)

// NotifyText replaces the message text in notify payloads.
const NotifyText = "New message!"

// Frame is one websocket text message in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is an inbound event. The set of implementations is closed.
type Event interface {
	Name() string
	event()
}

type JoinUserRoom struct {
	UserID string `json:"userId"`
}

type JoinChatRoom struct {
	ChatRoomID string `json:"chatRoomId"`
}

type LeaveChatRoom struct {
	ChatRoomID string `json:"chatRoomId"`
}

// SendChat relays a message that the client also persists over REST.
// Message is forwarded as received.
type SendChat struct {
	ChatRoomID string          `json:"chatRoomId"`
	Message    json.RawMessage `json:"message"`
}

type Typing struct {
	ChatRoomID string `json:"chatRoomId"`
	UserID     string `json:"userId"`
}

type StopTyping struct {
	ChatRoomID string `json:"chatRoomId"`
	UserID     string `json:"userId"`
}

type Online struct {
	UserID string `json:"userId"`
}

type Offline struct {
	UserID string `json:"userId"`
}

// ReadMessage carries the message id verbatim so numeric and string ids both round-trip.
type ReadMessage struct {
	ChatID     json.RawMessage `json:"chatId"`
	UserID     string          `json:"userId"`
	ChatRoomID string          `json:"chatRoomId"`
}

// Disconnect is raised by the transport when a connection goes away.
type Disconnect struct{}

func (JoinUserRoom) Name() string  { return EventJoinUserRoom }
func (JoinChatRoom) Name() string  { return EventJoinChatRoom }
func (LeaveChatRoom) Name() string { return EventLeaveChatRoom }
func (SendChat) Name() string      { return EventSendChat }
func (Typing) Name() string        { return EventTyping }
func (StopTyping) Name() string    { return EventStopTyping }
func (Online) Name() string        { return EventOnline }
func (Offline) Name() string       { return EventOffline }
func (ReadMessage) Name() string   { return EventReadMessage }
func (Disconnect) Name() string    { return "disconnect" }

func (JoinUserRoom) event()  {}
func (JoinChatRoom) event()  {}
func (LeaveChatRoom) event() {}
func (SendChat) event()      {}
func (Typing) event()        {}
func (StopTyping) event()    {}
func (Online) event()        {}
func (Offline) event()       {}
func (ReadMessage) event()   {}
func (Disconnect) event()    {}

// Decode parses a client frame into its event.
func Decode(raw []byte) (Event, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	var ev Event
	switch f.Event {
	case EventJoinUserRoom:
		ev = &JoinUserRoom{}
	case EventJoinChatRoom:
		ev = &JoinChatRoom{}
	case EventLeaveChatRoom:
		ev = &LeaveChatRoom{}
	case EventSendChat:
		ev = &SendChat{}
	case EventTyping:
		ev = &Typing{}
	case EventStopTyping:
		ev = &StopTyping{}
	case EventOnline:
		ev = &Online{}
	case EventOffline:
		ev = &Offline{}
	case EventReadMessage:
		ev = &ReadMessage{}
	default:
		return nil, fmt.Errorf("unknown event %q", f.Event)
	}

	if len(bytes.TrimSpace(f.Data)) == 0 {
		return nil, fmt.Errorf("event %q has no data", f.Event)
	}
	if err := json.Unmarshal(f.Data, ev); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", f.Event, err)
	}

	return deref(ev), nil
}

func deref(ev Event) Event {
	switch e := ev.(type) {
	case *JoinUserRoom:
		return *e
	case *JoinChatRoom:
		return *e
	case *LeaveChatRoom:
		return *e
	case *SendChat:
		return *e
	case *Typing:
		return *e
	case *StopTyping:
		return *e
	case *Online:
		return *e
	case *Offline:
		return *e
	case *ReadMessage:
		return *e
	}
	return ev
}

// Encode builds an outbound frame.
func Encode(event string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return json.Marshal(Frame{Event: event, Data: payload})
}

type userPayload struct {
	UserID string `json:"userId"`
}

type receiptPayload struct {
	ChatID json.RawMessage `json:"chatId"`
	UserID string          `json:"userId"`
}

// messageHeader is the part of a relayed message the hub routes on.
type messageHeader struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	ChatRoomID string `json:"chatRoomId"`
}

// notifyPayload copies a message object and overrides its text field.
func notifyPayload(message json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(message, &fields); err != nil {
		return nil, fmt.Errorf("message is not an object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("message is null")
	}
	text, _ := json.Marshal(NotifyText)
	fields["text"] = text
	return json.Marshal(fields)
}
