package models

// MaxMessageLen is the schema bound on chat message length.
const MaxMessageLen = 1000

// ChatMessage represents a chat message appended to the event log.
// Timestamps are client-supplied opaque strings stored verbatim.
type ChatMessage struct {
	ID        int64  `db:"id" json:"id"`
	User      string `db:"user" json:"user"`
	Message   string `db:"message" json:"message"`
	Room      string `db:"room" json:"room"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
