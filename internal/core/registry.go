package core

// registry tracks which clients are in which room. At most one room
// per client; the reverse map makes disconnect cleanup O(1).
// Mutation is confined to the Broker, which guards it with its own
// mutex. Empty rooms are kept; the broker never garbage-collects them.
type registry struct {
	rooms    map[string]map[*Client]struct{}
	byClient map[*Client]string
}

func newRegistry() *registry {
	return &registry{
		rooms:    make(map[string]map[*Client]struct{}),
		byClient: make(map[*Client]string),
	}
}

// track ensures a membership set exists for the room.
func (r *registry) track(roomID string) {
	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[*Client]struct{})
	}
}

// join moves the client into roomID, silently leaving any previous
// room. Returns the previous room id, if any.
func (r *registry) join(c *Client, roomID string) (prev string, moved bool) {
	prev, moved = r.byClient[c]
	if moved && prev == roomID {
		return prev, false
	}
	if moved {
		delete(r.rooms[prev], c)
	}
	r.track(roomID)
	r.rooms[roomID][c] = struct{}{}
	r.byClient[c] = roomID
	return prev, moved
}

// remove drops the client from its room, if it has one.
func (r *registry) remove(c *Client) (roomID string, ok bool) {
	roomID, ok = r.byClient[c]
	if !ok {
		return "", false
	}
	delete(r.rooms[roomID], c)
	delete(r.byClient, c)
	return roomID, true
}

// roomOf returns the room the client currently belongs to.
func (r *registry) roomOf(c *Client) (string, bool) {
	roomID, ok := r.byClient[c]
	return roomID, ok
}

// members returns a snapshot of the room's membership set.
func (r *registry) members(roomID string) []*Client {
	set, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}
