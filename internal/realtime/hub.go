package realtime

import (
	"context"
	"encoding/json"

	"medhaven/internal/domain"
	"medhaven/pkg/logger"
)

// Client is one live connection as seen by the hub.
type Client interface {
	ID() string
	// UserID is the authenticated account behind the connection.
	UserID() string
	// Send is the connection's outbound queue. The hub never blocks on it.
	Send() chan<- []byte
	// Close releases the connection. It must be safe to call more than once.
	Close()
}

type inbound struct {
	client Client
	event  Event
}

// Hub fans client events out to room, user and global audiences. All state
// lives in one goroutine (Run); the other methods only pass messages to it.
// Delivery is fire-and-forget: a connection whose queue is full is dropped.
type Hub struct {
	registry   *Registry
	register   chan Client
	unregister chan Client
	inbound    chan inbound
	stats      chan chan Stats
	done       chan struct{}
	log        logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		registry:   NewRegistry(),
		register:   make(chan Client),
		unregister: make(chan Client),
		inbound:    make(chan inbound),
		stats:      make(chan chan Stats),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run processes hub traffic until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for _, c := range h.registry.All() {
			h.registry.Remove(c.ID())
			c.Close()
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Realtime hub stopping", "connections", len(h.registry.All()))
			return
		case c := <-h.register:
			h.registry.Add(c)
			h.log.Debug("Connection registered", "conn_id", c.ID(), "user_id", c.UserID())
		case c := <-h.unregister:
			h.dispatch(c, Disconnect{})
		case in := <-h.inbound:
			h.dispatch(in.client, in.event)
		case reply := <-h.stats:
			reply <- h.registry.Stats()
		}
	}
}

// Register adds a connection. It returns false once the hub has stopped.
func (h *Hub) Register(c Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish hands an inbound event to the hub. Events are handled one at a
// time in arrival order.
func (h *Hub) Publish(c Client, ev Event) {
	select {
	case h.inbound <- inbound{client: c, event: ev}:
	case <-h.done:
	}
}

func (h *Hub) Stats() Stats {
	reply := make(chan Stats, 1)
	select {
	case h.stats <- reply:
		return <-reply
	case <-h.done:
		return Stats{}
	}
}

func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) dispatch(c Client, ev Event) {
	if !h.registry.Has(c.ID()) {
		return
	}
	userID := c.UserID()

	switch e := ev.(type) {
	case JoinUserRoom:
		if !h.ownUser(c, e, e.UserID) {
			return
		}
		h.registry.JoinUser(c.ID(), e.UserID)

	case JoinChatRoom:
		if !h.inRoom(c, e, e.ChatRoomID) {
			return
		}
		h.registry.JoinRoom(c.ID(), e.ChatRoomID)

	case LeaveChatRoom:
		h.registry.LeaveRoom(c.ID(), e.ChatRoomID)

	case SendChat:
		h.sendChat(c, e)

	case Typing:
		if !h.ownUser(c, e, e.UserID) || !h.inRoom(c, e, e.ChatRoomID) {
			return
		}
		h.toRoom(e.ChatRoomID, c.ID(), EventShowTyping, userPayload{UserID: e.UserID})

	case StopTyping:
		if !h.ownUser(c, e, e.UserID) || !h.inRoom(c, e, e.ChatRoomID) {
			return
		}
		h.toRoom(e.ChatRoomID, c.ID(), EventHideTyping, userPayload{UserID: e.UserID})

	case Online:
		if !h.ownUser(c, e, e.UserID) {
			return
		}
		h.registry.SetOnline(userID)
		h.toAll(EventUserOnline, userPayload{UserID: userID})

	case Offline:
		if !h.ownUser(c, e, e.UserID) {
			return
		}
		h.registry.SetOffline(userID)
		h.toAll(EventUserOffline, userPayload{UserID: userID})

	case ReadMessage:
		if !h.ownUser(c, e, e.UserID) || !h.inRoom(c, e, e.ChatRoomID) {
			return
		}
		if len(e.ChatID) == 0 {
			h.drop(c, e, "missing chatId")
			return
		}
		h.toRoom(e.ChatRoomID, c.ID(), EventReadReceipt, receiptPayload{ChatID: e.ChatID, UserID: e.UserID})

	case Disconnect:
		h.disconnect(c)

	default:
		h.log.Warn("Unhandled realtime event", "event", ev.Name(), "conn_id", c.ID())
	}
}

func (h *Hub) sendChat(c Client, e SendChat) {
	if !h.inRoom(c, e, e.ChatRoomID) {
		return
	}
	var header messageHeader
	if err := json.Unmarshal(e.Message, &header); err != nil {
		h.drop(c, e, "message is not an object")
		return
	}
	if header.SenderID != c.UserID() {
		h.drop(c, e, "message senderId does not match connection")
		return
	}
	if counterpart, _ := domain.RoomCounterpart(e.ChatRoomID, c.UserID()); header.ReceiverID != counterpart {
		h.drop(c, e, "message receiverId is not the room counterpart")
		return
	}
	if header.ChatRoomID != "" && header.ChatRoomID != e.ChatRoomID {
		h.drop(c, e, "message chatRoomId does not match event")
		return
	}

	h.toRoom(e.ChatRoomID, c.ID(), EventReceiveChat, e.Message)

	notify, err := notifyPayload(e.Message)
	if err != nil {
		h.drop(c, e, err.Error())
		return
	}
	h.deliver(h.registry.UserMembers(header.ReceiverID, c.ID()), EventNotify, notify)
}

func (h *Hub) disconnect(c Client) {
	userID := c.UserID()
	remaining := h.registry.Remove(c.ID())
	if remaining < 0 {
		return
	}
	c.Close()
	h.log.Debug("Connection closed", "conn_id", c.ID(), "user_id", userID, "remaining", remaining)

	if remaining == 0 && h.registry.IsOnline(userID) {
		h.registry.SetOffline(userID)
		h.toAll(EventUserOffline, userPayload{UserID: userID})
	}
}

func (h *Hub) toRoom(roomID, exceptID, event string, data interface{}) {
	h.deliver(h.registry.RoomMembers(roomID, exceptID), event, data)
}

func (h *Hub) toAll(event string, data interface{}) {
	h.deliver(h.registry.All(), event, data)
}

// deliver encodes once and queues the frame on every target. Targets whose
// queue is full are disconnected after the fan-out.
func (h *Hub) deliver(targets []Client, event string, data interface{}) {
	if len(targets) == 0 {
		return
	}
	frame, err := Encode(event, data)
	if err != nil {
		h.log.Error("Failed to encode realtime frame", "error", err, "event", event)
		return
	}

	var slow []Client
	for _, t := range targets {
		select {
		case t.Send() <- frame:
		default:
			slow = append(slow, t)
		}
	}
	for _, t := range slow {
		h.log.Warn("Dropping slow realtime connection", "conn_id", t.ID(), "user_id", t.UserID(), "event", event)
		h.disconnect(t)
	}
}

func (h *Hub) ownUser(c Client, ev Event, userID string) bool {
	if userID == "" || userID != c.UserID() {
		h.drop(c, ev, "userId does not match connection")
		return false
	}
	return true
}

func (h *Hub) inRoom(c Client, ev Event, roomID string) bool {
	if !domain.IsRoomParticipant(roomID, c.UserID()) {
		h.drop(c, ev, "connection user is not a room participant")
		return false
	}
	return true
}

func (h *Hub) drop(c Client, ev Event, reason string) {
	h.log.Warn("Dropped realtime event", "event", ev.Name(), "conn_id", c.ID(), "user_id", c.UserID(), "reason", reason)
}
