package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iterativai/empathic-venture-forge/internal/application"
	"github.com/iterativai/empathic-venture-forge/internal/domain/ai"
	domain "github.com/iterativai/empathic-venture-forge/internal/domain/chat"
	"github.com/iterativai/empathic-venture-forge/internal/infra/ai/prompt"
)

// Service implements the persona chat turns: one gateway call per
// message, no structured schema.
type Service struct {
	Repo    domain.Repository
	Gateway ai.Gateway
	Clock   application.Clock
	Log     *zap.Logger
}

// TurnCommand is one inbound chat request.
type TurnCommand struct {
	UserID         string
	ConversationID domain.ConversationID // optional; empty skips persistence
	AgentType      domain.AgentType
	Messages       []ai.Message
}

// Send forwards the conversation to the gateway under the persona's
// system prompt and returns the assistant reply.
func (s *Service) Send(ctx context.Context, cmd TurnCommand) (string, error) {
	if !cmd.AgentType.Valid() {
		return "", fmt.Errorf("unknown agent type: %s", cmd.AgentType)
	}
	if len(cmd.Messages) == 0 {
		return "", fmt.Errorf("messages are required")
	}

	reply, err := s.Gateway.Chat(ctx, prompt.PersonaSystemPrompt(cmd.AgentType), cmd.Messages)
	if err != nil {
		return "", err
	}

	if cmd.ConversationID != "" && s.Repo != nil {
		now := s.Clock.Now()
		last := cmd.Messages[len(cmd.Messages)-1]
		turns := []*domain.Message{
			{ID: uuid.New().String(), ConversationID: cmd.ConversationID, Role: last.Role, Content: last.Content, CreatedAt: now},
			{ID: uuid.New().String(), ConversationID: cmd.ConversationID, Role: "assistant", Content: reply, CreatedAt: now},
		}
		for _, m := range turns {
			if err := s.Repo.SaveMessage(ctx, m); err != nil {
				// Reply already exists; persistence is best-effort.
				s.Log.Warn("saving chat message",
					zap.String("conversation_id", string(cmd.ConversationID)),
					zap.Error(err),
				)
				break
			}
		}
	}
	return reply, nil
}

// StartConversation creates a persisted conversation for one persona.
func (s *Service) StartConversation(ctx context.Context, userID string, agentType domain.AgentType, title string) (*domain.Conversation, error) {
	if !agentType.Valid() {
		return nil, fmt.Errorf("unknown agent type: %s", agentType)
	}
	c := &domain.Conversation{
		ID:        domain.ConversationID(uuid.New().String()),
		UserID:    userID,
		AgentType: agentType,
		Title:     title,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.SaveConversation(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Messages lists a conversation's messages in stored order.
func (s *Service) Messages(ctx context.Context, userID string, id domain.ConversationID) ([]*domain.Message, error) {
	if _, err := s.Repo.GetConversation(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.Repo.ListMessages(ctx, id)
}
