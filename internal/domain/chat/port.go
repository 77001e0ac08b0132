package chat

import "context"

// Repository port for conversations and messages
type Repository interface {
	SaveConversation(ctx context.Context, c *Conversation) error
	GetConversation(ctx context.Context, userID string, id ConversationID) (*Conversation, error)
	SaveMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, id ConversationID) ([]*Message, error)
}
