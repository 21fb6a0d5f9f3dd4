package repository

import (
	"context"
	"fmt"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for in-ride messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, ride_id, sender_id, receiver_id, content, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.RideID, msg.SenderID, msg.ReceiverID,
		msg.Content, msg.Type, msg.Read, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `
		SELECT id, ride_id, sender_id, receiver_id, content, type, read, read_at, created_at
		FROM messages
		WHERE id = $1
	`
	var msg models.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.RideID, &msg.SenderID, &msg.ReceiverID,
		&msg.Content, &msg.Type, &msg.Read, &msg.ReadAt, &msg.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("message")
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &msg, nil
}

// ListByRide retrieves all messages of a ride in chronological order
func (r *MessageRepository) ListByRide(ctx context.Context, rideID string) ([]*models.Message, error) {
	query := `
		SELECT id, ride_id, sender_id, receiver_id, content, type, read, read_at, created_at
		FROM messages
		WHERE ride_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID, &msg.RideID, &msg.SenderID, &msg.ReceiverID,
			&msg.Content, &msg.Type, &msg.Read, &msg.ReadAt, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// MarkRead sets the read flag and stamps read_at once. The read guard in
// the WHERE clause keeps the timestamp from being overwritten; marking an
// already-read message matches zero rows.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID string) (bool, error) {
	query := `UPDATE messages SET read = TRUE, read_at = now() WHERE id = $1 AND read = FALSE`
	result, err := r.db.Exec(ctx, query, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to mark message read: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
