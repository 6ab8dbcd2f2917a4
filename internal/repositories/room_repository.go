package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chat-relay/internal/models"
)

// RoomRepository is the room announcement stream of the event log. It is
// a separate stream from messages with its own sequence.
type RoomRepository interface {
	AppendRoom(ctx context.Context, name, date string) (int64, error)
	ListRooms(ctx context.Context) ([]models.RoomAnnouncement, error)
}

// RoomRepo is a sqlx-backed repository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// AppendRoom inserts a room announcement and returns its sequence id.
func (r *RoomRepo) AppendRoom(ctx context.Context, name, date string) (int64, error) {
	var id int64
	query := r.db.Rebind(`INSERT INTO chatrooms (name, date) VALUES (?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query, name, date).Scan(&id); err != nil {
		return 0, fmt.Errorf("append room: %w", err)
	}
	return id, nil
}

// ListRooms returns all room announcements, most recent first.
func (r *RoomRepo) ListRooms(ctx context.Context) ([]models.RoomAnnouncement, error) {
	rooms := []models.RoomAnnouncement{}
	err := r.db.SelectContext(ctx, &rooms, `SELECT id, name, date FROM chatrooms ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
