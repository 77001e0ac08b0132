package chat

import "time"

// ConversationID identifier type
type ConversationID string

// AgentType enum: the four dashboard personas
type AgentType string

const (
	AgentCoFounder  AgentType = "co_founder"
	AgentCoInvestor AgentType = "co_investor"
	AgentCoLender   AgentType = "co_lender"
	AgentCoBuilder  AgentType = "co_builder"
)

// Valid reports whether t is a known persona.
func (t AgentType) Valid() bool {
	switch t {
	case AgentCoFounder, AgentCoInvestor, AgentCoLender, AgentCoBuilder:
		return true
	}
	return false
}

// Conversation groups messages with one persona for one user.
type Conversation struct {
	ID        ConversationID `json:"id"`
	UserID    string         `json:"user_id"`
	AgentType AgentType      `json:"agent_type"`
	Title     string         `json:"title"`
	CreatedAt time.Time      `json:"created_at"`
}

// Message is a persisted chat turn.
type Message struct {
	ID             string         `json:"id"`
	ConversationID ConversationID `json:"conversation_id"`
	Role           string         `json:"role"` // user | assistant
	Content        string         `json:"content"`
	CreatedAt      time.Time      `json:"created_at"`
}
