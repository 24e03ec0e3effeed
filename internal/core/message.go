package core

// Message is the domain model for a chat message.
type Message struct {
	ID        string
	Room      string
	Sender    string
	Text      string
	Timestamp int64 // unix milliseconds
}
