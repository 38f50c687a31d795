package realtime

// Registry tracks live connections and the user and room channels they have
// joined. It is owned by the hub goroutine and is not safe for concurrent use.
type Registry struct {
	clients     map[string]Client
	memberships map[string]*membership
	userChans   map[string]map[string]struct{}
	roomChans   map[string]map[string]struct{}
	liveConns   map[string]int
	online      map[string]struct{}
}

type membership struct {
	users map[string]struct{}
	rooms map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients:     make(map[string]Client),
		memberships: make(map[string]*membership),
		userChans:   make(map[string]map[string]struct{}),
		roomChans:   make(map[string]map[string]struct{}),
		liveConns:   make(map[string]int),
		online:      make(map[string]struct{}),
	}
}

func (r *Registry) Add(c Client) {
	if _, ok := r.clients[c.ID()]; ok {
		return
	}
	r.clients[c.ID()] = c
	r.memberships[c.ID()] = &membership{users: make(map[string]struct{}), rooms: make(map[string]struct{})}
	r.liveConns[c.UserID()]++
}

func (r *Registry) Has(connID string) bool {
	_, ok := r.clients[connID]
	return ok
}

// Remove drops the connection from every channel. It returns the number of
// connections its user still has open, or -1 if connID was unknown.
func (r *Registry) Remove(connID string) int {
	c, ok := r.clients[connID]
	if !ok {
		return -1
	}
	m := r.memberships[connID]
	for userID := range m.users {
		leave(r.userChans, userID, connID)
	}
	for roomID := range m.rooms {
		leave(r.roomChans, roomID, connID)
	}
	delete(r.memberships, connID)
	delete(r.clients, connID)

	userID := c.UserID()
	r.liveConns[userID]--
	remaining := r.liveConns[userID]
	if remaining <= 0 {
		delete(r.liveConns, userID)
		remaining = 0
	}
	return remaining
}

func (r *Registry) JoinUser(connID, userID string) {
	m, ok := r.memberships[connID]
	if !ok {
		return
	}
	m.users[userID] = struct{}{}
	join(r.userChans, userID, connID)
}

func (r *Registry) JoinRoom(connID, roomID string) {
	m, ok := r.memberships[connID]
	if !ok {
		return
	}
	m.rooms[roomID] = struct{}{}
	join(r.roomChans, roomID, connID)
}

func (r *Registry) LeaveRoom(connID, roomID string) {
	m, ok := r.memberships[connID]
	if !ok {
		return
	}
	delete(m.rooms, roomID)
	leave(r.roomChans, roomID, connID)
}

// RoomMembers returns the connections joined to roomID, except exceptID.
func (r *Registry) RoomMembers(roomID, exceptID string) []Client {
	return r.members(r.roomChans[roomID], exceptID)
}

// UserMembers returns the connections joined to the user channel of userID, except exceptID.
func (r *Registry) UserMembers(userID, exceptID string) []Client {
	return r.members(r.userChans[userID], exceptID)
}

func (r *Registry) All() []Client {
	out := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// SetOnline records that userID announced itself online.
func (r *Registry) SetOnline(userID string) { r.online[userID] = struct{}{} }

func (r *Registry) SetOffline(userID string) { delete(r.online, userID) }

func (r *Registry) IsOnline(userID string) bool {
	_, ok := r.online[userID]
	return ok
}

func (r *Registry) LiveConnections(userID string) int { return r.liveConns[userID] }

func (r *Registry) Stats() Stats {
	return Stats{
		Connections:  len(r.clients),
		Users:        len(r.liveConns),
		Rooms:        len(r.roomChans),
		UserChannels: len(r.userChans),
		OnlineUsers:  len(r.online),
	}
}

func (r *Registry) members(set map[string]struct{}, exceptID string) []Client {
	out := make([]Client, 0, len(set))
	for id := range set {
		if id == exceptID {
			continue
		}
		if c, ok := r.clients[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func join(chans map[string]map[string]struct{}, key, connID string) {
	set, ok := chans[key]
	if !ok {
		set = make(map[string]struct{})
		chans[key] = set
	}
	set[connID] = struct{}{}
}

func leave(chans map[string]map[string]struct{}, key, connID string) {
	set, ok := chans[key]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(chans, key)
	}
}

// Stats is a snapshot of the registry.
type Stats struct {
	Connections  int `json:"connections"`
	Users        int `json:"users"`
	Rooms        int `json:"rooms"`
	UserChannels int `json:"userChannels"`
	OnlineUsers  int `json:"onlineUsers"`
}
