package assistant

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"wellness-care-api/internal/wellness"
)

const systemPrompt = "You are a calm, supportive wellness assistant for an Ayurvedic therapy center. " +
	"Keep answers short and practical. Never give a medical diagnosis; suggest seeing a practitioner " +
	"for anything serious."

// Gemini backs assistant sessions with the Gemini API.
type Gemini struct {
	model *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{model: client.GenerativeModel("models/gemini-1.5-flash")}, nil
}

// NewSession starts a chat seeded with the user's current condition so the
// model has it from the first turn.
func (g *Gemini) NewSession(_ context.Context, condition string) (Session, error) {
	cs := g.model.StartChat()
	seed := systemPrompt
	if condition != "" {
		seed += " The user's current condition: " + condition + "."
	}
	cs.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(seed)}},
		{Role: "model", Parts: []genai.Part{genai.Text("Understood. How can I help you today?")}},
	}
	return &geminiSession{chat: cs}, nil
}

type geminiSession struct {
	chat *genai.ChatSession
}

func (s *geminiSession) Send(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("%w: %v", wellness.ErrAssistantUnavailable, err)
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		break
	}
	return sb.String(), nil
}

// Disabled is used when no API key is configured; every send fails so the
// handler serves the fallback reply.
type Disabled struct{}

func (Disabled) NewSession(context.Context, string) (Session, error) {
	return disabledSession{}, nil
}

type disabledSession struct{}

func (disabledSession) Send(context.Context, string) (string, error) {
	return "", wellness.ErrAssistantUnavailable
}
