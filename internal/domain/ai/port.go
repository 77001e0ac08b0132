package ai

import "context"

// Message is one chat turn forwarded to the gateway.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Gateway is the single external LLM dependency. Injected at
// construction so handlers can run against a fake.
type Gateway interface {
	// AnalyzeJSON makes one JSON-mode completion call and returns the
	// raw message content. No retries.
	AnalyzeJSON(ctx context.Context, system, user string) (string, error)

	// Chat makes one plain-text completion call over a conversation.
	Chat(ctx context.Context, system string, messages []Message) (string, error)
}
