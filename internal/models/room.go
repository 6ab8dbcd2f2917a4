package models

// RoomAnnouncement represents a room creation event. Rooms form their own
// event stream with independent sequence ids; the room name is a free-text
// label, not a referential key.
type RoomAnnouncement struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Date string `db:"date" json:"date"`
}
