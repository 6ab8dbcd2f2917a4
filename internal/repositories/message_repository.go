package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chat-relay/internal/models"
)

// MessageRepository is the chat message stream of the event log. Rows are
// append-only: the sequence id is assigned at insert and never reused.
type MessageRepository interface {
	AppendMessage(ctx context.Context, user, message, room, createdAt string) (int64, error)
	ListMessages(ctx context.Context) ([]models.ChatMessage, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// AppendMessage inserts a chat message and returns its sequence id.
// Fields are stored as given; validation happens before accept.
func (r *MessageRepo) AppendMessage(ctx context.Context, user, message, room, createdAt string) (int64, error) {
	var id int64
	query := r.db.Rebind(`INSERT INTO messages ("user", message, room, created_at) VALUES (?, ?, ?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query, user, message, room, createdAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("append message: %w", err)
	}
	return id, nil
}

// ListMessages returns the full message history, oldest first.
func (r *MessageRepo) ListMessages(ctx context.Context) ([]models.ChatMessage, error) {
	msgs := []models.ChatMessage{}
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, "user", message, room, created_at FROM messages ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}
