package mysql

import (
	"context"
	"database/sql"

	domain "github.com/iterativai/empathic-venture-forge/internal/domain/chat"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// SaveConversation inserts a conversation row
func (r *ConversationRepository) SaveConversation(ctx context.Context, c *domain.Conversation) error {
	const q = `
INSERT INTO agent_conversations (id, user_id, agent_type, title, created_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE title=VALUES(title);
`
	_, err := r.db.ExecContext(ctx, q, c.ID, stringOrDash(c.UserID), c.AgentType, c.Title, c.CreatedAt)
	return err
}

// GetConversation by ID + owner
func (r *ConversationRepository) GetConversation(ctx context.Context, userID string, id domain.ConversationID) (*domain.Conversation, error) {
	const q = `
SELECT id, user_id, agent_type, title, created_at
FROM agent_conversations
WHERE user_id=? AND id=? LIMIT 1;`
	var c domain.Conversation
	if err := r.db.QueryRowContext(ctx, q, userID, id).Scan(
		&c.ID, &c.UserID, &c.AgentType, &c.Title, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveMessage appends one chat turn
func (r *ConversationRepository) SaveMessage(ctx context.Context, m *domain.Message) error {
	const q = `
INSERT INTO agent_messages (id, conversation_id, role, content, created_at)
VALUES (?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, q, m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt)
	return err
}

// ListMessages in stored order
func (r *ConversationRepository) ListMessages(ctx context.Context, id domain.ConversationID) ([]*domain.Message, error) {
	const q = `
SELECT id, conversation_id, role, content, created_at
FROM agent_messages
WHERE conversation_id=?
ORDER BY created_at ASC, id ASC;`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
